// Package proposition содержит агрегат заявки на поступление (proposition):
// граф статусов, бизнес-правила и операции, меняющие состояние.
// Внешние данные (профиль кандидата, файлы, оплата) передаются в операции
// готовыми снимками; агрегат не ходит ни в сеть, ни в базу.
package proposition

import (
	"encoding/json"
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/checklist"
	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/formation"
	"github.com/alem-hub/admission-workflow/internal/domain/profil"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// TypeDemande: поступление или повторная регистрация.
type TypeDemande string

const (
	TypeAdmission     TypeDemande = "ADMISSION"
	TypeReinscription TypeDemande = "REINSCRIPTION"
)

// IsValid проверяет, что тип известен.
func (t TypeDemande) IsValid() bool {
	return t == TypeAdmission || t == TypeReinscription
}

// TypeTitreAcces: источник титула доступа.
type TypeTitreAcces string

const (
	TitreEtudesSecondaires       TypeTitreAcces = "ETUDES_SECONDAIRES"
	TitreExperienceAcademique    TypeTitreAcces = "EXPERIENCE_ACADEMIQUE"
	TitreExperienceNonAcademique TypeTitreAcces = "EXPERIENCE_NON_ACADEMIQUE"
)

// TitreAcces: опыт кандидата, который менеджер может выбрать как основание
// для допуска.
type TitreAcces struct {
	UUIDExperience string         `json:"uuid_experience"`
	Type           TypeTitreAcces `json:"type_titre"`
	Selectionne    bool           `json:"selectionne"`
}

// Reponse: ответ на специфический вопрос: строка или список строк.
// В JSON хранится в исходной форме.
type Reponse struct {
	Valeurs []string
	Liste   bool
}

// Texte создаёт ответ-строку.
func Texte(v string) Reponse { return Reponse{Valeurs: []string{v}} }

// Liste создаёт ответ-список.
func Liste(v ...string) Reponse { return Reponse{Valeurs: v, Liste: true} }

// EstVide возвращает true, если ответа фактически нет.
func (r Reponse) EstVide() bool {
	for _, v := range r.Valeurs {
		if v != "" {
			return false
		}
	}
	return true
}

// MarshalJSON сохраняет строку или список.
func (r Reponse) MarshalJSON() ([]byte, error) {
	if r.Liste {
		if r.Valeurs == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.Valeurs)
	}
	if len(r.Valeurs) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(r.Valeurs[0])
}

// UnmarshalJSON принимает строку или список строк.
func (r *Reponse) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Texte(s)
		return nil
	}
	var l []string
	if err := json.Unmarshal(data, &l); err != nil {
		return err
	}
	*r = Liste(l...)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: PROPOSITION
// ══════════════════════════════════════════════════════════════════════════════

// Proposition: корень агрегата, одна заявка кандидата на одну программу.
// Поля открыты для репозиториев; менять их следует только через методы
// операций, которые сначала проверяют все правила и лишь потом мутируют.
type Proposition struct {
	// UUID - глобальный идентификатор, не меняется после создания.
	UUID string

	// Reference - короткий человекочитаемый номер.
	Reference int64

	// Statut - общий статус.
	Statut ChoixStatutProposition

	// Type - поступление или повторная регистрация.
	Type TypeDemande

	// MatriculeCandidat - идентификатор кандидата.
	MatriculeCandidat string

	// Formation - программа и академический год.
	Formation formation.Formation

	// SoumiseLe - дата подачи (nil до подачи).
	SoumiseLe *time.Time

	// ReponsesQuestionsSpecifiques - ответы на вопросы программы.
	ReponsesQuestionsSpecifiques map[string]Reponse

	// Comptabilite - снимок бухгалтерских ответов.
	Comptabilite *profil.Comptabilite

	// ChecklistInitiale - замороженный снимок на момент подачи.
	ChecklistInitiale *checklist.StatutsChecklist

	// ChecklistActuelle - живой чеклист менеджеров.
	ChecklistActuelle *checklist.StatutsChecklist

	// DocumentsDemandes - состояние запросов документов.
	DocumentsDemandes document.DocumentsDemandes

	// DocumentsSysteme - сгенерированные PDF по имени слота.
	DocumentsSysteme map[string][]string

	// Решения менеджеров.
	ConditionAcces                string
	TitresAcces                   []TitreAcces
	TypeEquivalenceTitreAcces     string
	AvecConditionsComplementaires *bool
	ConditionsComplementaires     []string
	AvecComplementsFormation      *bool
	ComplementsFormation          []string
	NombreAnneesPrevoirProgramme  *int
	MotifsRefus                   []string
	DoitFournirVisaEtudes         bool

	// Данные анкеты, влияющие на список документов.
	EstReorientation           bool
	EstModificationInscription bool
	Cotutelle                  bool
	FinancementParBourse       bool
	MembresSupervision         []string

	// AuteurDerniereModification - кто последним менял заявку.
	AuteurDerniereModification string

	// CreeLe - время создания.
	CreeLe time.Time

	// ModifieeLe - время последнего изменения.
	ModifieeLe time.Time

	// Version - счётчик для оптимистичной блокировки.
	Version int
}

// Nouvelle создаёт черновик заявки.
func Nouvelle(matricule string, f formation.Formation, typ TypeDemande, now time.Time) (*Proposition, error) {
	if matricule == "" {
		return nil, shared.NewDomainError("proposition", "Nouvelle", shared.ErrEmptyValue, "candidate is required")
	}
	if !f.Type.IsValid() {
		return nil, shared.NewDomainError("proposition", "Nouvelle", shared.ErrInvalidInput, "unknown training type")
	}
	if !typ.IsValid() {
		typ = TypeAdmission
	}
	return &Proposition{
		UUID:                         shared.NewUUID().String(),
		Statut:                       StatutEnBrouillon,
		Type:                         typ,
		MatriculeCandidat:            matricule,
		Formation:                    f,
		ReponsesQuestionsSpecifiques: map[string]Reponse{},
		DocumentsDemandes:            document.DocumentsDemandes{},
		DocumentsSysteme:             map[string][]string{},
		CreeLe:                       now,
		ModifieeLe:                   now,
	}, nil
}

// Contexte возвращает семейство процесса по типу программы.
func (p *Proposition) Contexte() formation.Contexte {
	return p.Formation.Contexte()
}

// TitresSelectionnes возвращает выбранные титулы доступа.
func (p *Proposition) TitresSelectionnes() []TitreAcces {
	var out []TitreAcces
	for _, t := range p.TitresAcces {
		if t.Selectionne {
			out = append(out, t)
		}
	}
	return out
}

// Clone возвращает глубокую копию.
func (p *Proposition) Clone() *Proposition {
	c := *p
	if p.SoumiseLe != nil {
		t := *p.SoumiseLe
		c.SoumiseLe = &t
	}
	c.ReponsesQuestionsSpecifiques = make(map[string]Reponse, len(p.ReponsesQuestionsSpecifiques))
	for k, v := range p.ReponsesQuestionsSpecifiques {
		c.ReponsesQuestionsSpecifiques[k] = Reponse{Valeurs: append([]string(nil), v.Valeurs...), Liste: v.Liste}
	}
	if p.Comptabilite != nil {
		compta := *p.Comptabilite
		c.Comptabilite = &compta
	}
	c.ChecklistInitiale = p.ChecklistInitiale.Clone()
	c.ChecklistActuelle = p.ChecklistActuelle.Clone()
	c.DocumentsDemandes = p.DocumentsDemandes.Clone()
	c.DocumentsSysteme = make(map[string][]string, len(p.DocumentsSysteme))
	for k, v := range p.DocumentsSysteme {
		c.DocumentsSysteme[k] = append([]string(nil), v...)
	}
	c.TitresAcces = append([]TitreAcces(nil), p.TitresAcces...)
	c.ConditionsComplementaires = append([]string(nil), p.ConditionsComplementaires...)
	c.ComplementsFormation = append([]string(nil), p.ComplementsFormation...)
	c.MotifsRefus = append([]string(nil), p.MotifsRefus...)
	c.MembresSupervision = append([]string(nil), p.MembresSupervision...)
	if p.AvecConditionsComplementaires != nil {
		v := *p.AvecConditionsComplementaires
		c.AvecConditionsComplementaires = &v
	}
	if p.AvecComplementsFormation != nil {
		v := *p.AvecComplementsFormation
		c.AvecComplementsFormation = &v
	}
	if p.NombreAnneesPrevoirProgramme != nil {
		v := *p.NombreAnneesPrevoirProgramme
		c.NombreAnneesPrevoirProgramme = &v
	}
	return &c
}

// toucher отмечает изменение заявки.
func (p *Proposition) toucher(auteur string, now time.Time) {
	p.AuteurDerniereModification = auteur
	p.ModifieeLe = now
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE SNAPSHOT & DOCUMENT RESUME
// ══════════════════════════════════════════════════════════════════════════════

// Profil: снимок профиля кандидата, собранный из транслятора.
type Profil struct {
	Identification    *profil.Identification
	Coordonnees       *profil.Coordonnees
	Langues           []profil.ConnaissanceLangue
	EtudesSecondaires *profil.EtudesSecondaires
	Examen            *profil.Examen
	Curriculum        *profil.Curriculum
}

// Resume собирает снимок, по которому движок документов строит каталог.
func (p *Proposition) Resume(pr Profil, questions []document.QuestionSpecifique, fichiers map[string][]string) *document.Resume {
	r := &document.Resume{
		UUIDProposition:            p.UUID,
		Formation:                  p.Formation,
		InscriptionAutorisee:       p.Statut == StatutInscriptionAutorisee,
		DoitFournirVisaEtudes:      p.DoitFournirVisaEtudes,
		EstReorientation:           p.EstReorientation,
		EstModificationInscription: p.EstModificationInscription,
		Cotutelle:                  p.Cotutelle,
		FinancementParBourse:       p.FinancementParBourse,
		MembresSupervision:         p.MembresSupervision,
		EtudesSecondaires:          pr.EtudesSecondaires,
		Examen:                     pr.Examen,
		Langues:                    pr.Langues,
		Comptabilite:               p.Comptabilite,
		Questions:                  questions,
		Fichiers:                   fichiers,
		DocumentsSysteme:           p.DocumentsSysteme,
	}
	if pr.Identification != nil {
		r.Identification = *pr.Identification
	}
	if pr.Curriculum != nil {
		r.Curriculum = *pr.Curriculum
	}
	if r.Fichiers == nil {
		r.Fichiers = map[string][]string{}
	}
	return r
}

// RecalculerDocuments пересчитывает применимые слоты и обновляет
// сохранённые запросы. Узлы parcours_anterieur следуют за опытами из
// резюме так же, как слоты. Идемпотентна.
func (p *Proposition) RecalculerDocuments(r *document.Resume) []document.EmplacementDocument {
	emplacements, demandes := document.Calculer(r, p.DocumentsDemandes)
	p.DocumentsDemandes = demandes
	if parcours, err := p.zone(checklist.OngletParcoursAnterieur); err == nil {
		parcours.SynchroniserEnfants(r.Curriculum.Identifiants())
	}
	return emplacements
}
