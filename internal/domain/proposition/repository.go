package proposition

//go:generate mockgen -source=repository.go -destination=../../mocks/proposition_mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/formation"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Контракты хранилища и внешних сервисов заявки.
// Реализации находятся в infrastructure.
// ══════════════════════════════════════════════════════════════════════════════

// Repository хранит агрегаты Proposition.
type Repository interface {
	// Get возвращает заявку по UUID.
	// Возвращает ErrPropositionNonTrouvee, если заявка не найдена.
	Get(ctx context.Context, uuid string) (*Proposition, error)

	// Save создаёт или обновляет заявку целиком.
	// Возвращает ErrConcurrentModification, если Version устарела.
	Save(ctx context.Context, p *Proposition) error

	// Search возвращает заявки по фильтру, от новых к старым.
	Search(ctx context.Context, filtre Filtre) ([]*Proposition, error)

	// CountSoumises возвращает число поданных и не закрытых заявок кандидата.
	CountSoumises(ctx context.Context, matricule string) (int, error)
}

// Filtre задаёт условия поиска заявок. Пустые поля не фильтруют.
type Filtre struct {
	// Matricule - кандидат.
	Matricule string

	// Statuts - допустимые статусы.
	Statuts []ChoixStatutProposition

	// Contexte - семейство программ.
	Contexte formation.Contexte

	// AnneeFormation - академический год программы.
	AnneeFormation int

	// Pagination - страница результатов.
	Pagination shared.Pagination
}

// Correspond проверяет заявку на соответствие фильтру.
func (f Filtre) Correspond(p *Proposition) bool {
	if f.Matricule != "" && p.MatriculeCandidat != f.Matricule {
		return false
	}
	if f.Contexte != "" && p.Contexte() != f.Contexte {
		return false
	}
	if f.AnneeFormation > 0 && p.Formation.Annee != f.AnneeFormation {
		return false
	}
	if len(f.Statuts) == 0 {
		return true
	}
	for _, s := range f.Statuts {
		if p.Statut == s {
			return true
		}
	}
	return false
}

// AcademicYearRepository даёт доступ к календарю академических лет.
type AcademicYearRepository interface {
	// Get возвращает академический год.
	// Возвращает ErrAnneeAcademiqueInconnu, если год не настроен.
	Get(ctx context.Context, annee int) (shared.AnneeAcademique, error)

	// Courante возвращает академический год, которому принадлежит дата.
	Courante(ctx context.Context, date time.Time) (shared.AnneeAcademique, error)
}

// QuestionsSpecifiquesRepository даёт вопросы, настроенные для программы.
type QuestionsSpecifiquesRepository interface {
	// Search возвращает вопросы программы в порядке отображения.
	Search(ctx context.Context, f formation.Formation) ([]document.QuestionSpecifique, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// COLLABORATORS
// ══════════════════════════════════════════════════════════════════════════════

// PaiementService опрашивает платёжного провайдера.
type PaiementService interface {
	// PaiementRealise сообщает, оплачен ли сбор за рассмотрение.
	PaiementRealise(ctx context.Context, uuidProposition string) (bool, error)
}

// NotificationService отправляет сообщения кандидату.
// Ошибки не откатывают операцию.
type NotificationService interface {
	Confirmer(ctx context.Context, p *Proposition) error
	DemanderDocuments(ctx context.Context, p *Proposition, identifiants []string) error
	NotifierRefus(ctx context.Context, p *Proposition) error
	NotifierAutorisation(ctx context.Context, p *Proposition) error
}

// EntreeHistorique: одна запись в истории заявки.
type EntreeHistorique struct {
	UUIDProposition string
	Evenement       string
	Auteur          string
	Message         string
	Statut          ChoixStatutProposition
	Horodatage      time.Time
	Donnees         map[string]interface{}
}

// HistoriqueService ведёт историю действий по заявке.
type HistoriqueService interface {
	Historiser(ctx context.Context, e EntreeHistorique) error
	Lister(ctx context.Context, uuidProposition string) ([]EntreeHistorique, error)
}

// Шаблоны PDF, сохраняемые в слоты SYSTEME.
const (
	PdfAttestationAccordFacultaire = "ATTESTATION_ACCORD_FACULTAIRE"
	PdfAttestationAccordSic        = "ATTESTATION_ACCORD_SIC"
	PdfAttestationRefusSic         = "ATTESTATION_REFUS_SIC"
)

// PdfGenerationService генерирует документы решения.
type PdfGenerationService interface {
	// Generer создаёт PDF по шаблону и возвращает UUID загруженных файлов.
	Generer(ctx context.Context, p *Proposition, modele string) ([]string, error)
}

// AjouterDocumentSysteme сохраняет сгенерированный PDF в слот SYSTEME.
func (p *Proposition) AjouterDocumentSysteme(modele string, uuids []string) {
	if p.DocumentsSysteme == nil {
		p.DocumentsSysteme = map[string][]string{}
	}
	p.DocumentsSysteme[modele] = append([]string(nil), uuids...)
}
