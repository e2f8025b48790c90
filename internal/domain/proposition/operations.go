package proposition

import (
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/checklist"
	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/formation"
	"github.com/alem-hub/admission-workflow/internal/domain/profil"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
	"github.com/alem-hub/admission-workflow/internal/domain/validation"
)

// Каждая операция: сначала проверка перехода (ошибка состояния), затем
// бизнес-правила (MultipleBusinessErrors), и только потом мутация.
// При любой ошибке агрегат не меняется.

// destination возвращает единственный статус, достижимый операцией.
func (p *Proposition) destination(op Operation) (ChoixStatutProposition, error) {
	dest := Destinations(op, p.Contexte(), p.Statut)
	if len(dest) == 0 {
		return "", erreurTransition(op, p.Statut)
	}
	return dest[0], nil
}

// modifiable проверяет, что заявка подана и ещё не закрыта.
func (p *Proposition) modifiable(op string) error {
	if !p.Statut.EstSoumise() || p.Statut.EstTerminal() {
		return shared.WrapError("proposition", op, shared.ErrInvalidState,
			"status "+string(p.Statut), shared.ErrTransitionInterdite)
	}
	if p.ChecklistActuelle == nil {
		return shared.ErrChecklistNonInitialisee
	}
	return nil
}

// ongletDecisionFac: область решения факультета (CDD для докторантуры).
func (p *Proposition) ongletDecisionFac() checklist.Onglet {
	if p.Contexte() == formation.ContexteDoctorat {
		return checklist.OngletDecisionCdd
	}
	return checklist.OngletDecisionFacultaire
}

func (p *Proposition) zone(onglet checklist.Onglet) (*checklist.StatutChecklist, error) {
	if p.ChecklistActuelle == nil {
		return nil, shared.ErrChecklistNonInitialisee
	}
	return p.ChecklistActuelle.Get(onglet)
}

// ══════════════════════════════════════════════════════════════════════════════
// SIGNATURE (DOCTORAL)
// ══════════════════════════════════════════════════════════════════════════════

// VerrouillerPourSignature блокирует черновик на время подписей.
func (p *Proposition) VerrouillerPourSignature(auteur string, now time.Time) error {
	to, err := p.destination(OpVerrouillerPourSignature)
	if err != nil {
		return err
	}
	p.Statut = to
	p.toucher(auteur, now)
	return nil
}

// DeverrouillerSignature возвращает заявку в черновик.
func (p *Proposition) DeverrouillerSignature(auteur string, now time.Time) error {
	to, err := p.destination(OpDeverrouillerSignature)
	if err != nil {
		return err
	}
	p.Statut = to
	p.toucher(auteur, now)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBMISSION
// ══════════════════════════════════════════════════════════════════════════════

// Soumission: всё, что нужно для подачи заявки.
type Soumission struct {
	Profil    Profil
	Questions []document.QuestionSpecifique
	Fichiers  map[string][]string

	// NombrePropositionsSoumises - уже поданные заявки кандидата.
	NombrePropositionsSoumises int

	// Maximum - лимит одновременно поданных заявок (0 - без лимита).
	Maximum int

	Auteur     string
	Maintenant time.Time
}

// ValidatorsSoumission возвращает правила подачи для снимка.
func (p *Proposition) ValidatorsSoumission(s Soumission) []validation.Validator {
	return []validation.Validator{
		ValidatorIdentification{Identification: s.Profil.Identification},
		ValidatorCoordonnees{Coordonnees: s.Profil.Coordonnees},
		ValidatorLangues{Contexte: p.Contexte(), Langues: s.Profil.Langues},
		ValidatorCurriculum{
			Formation:         p.Formation,
			Curriculum:        s.Profil.Curriculum,
			EtudesSecondaires: s.Profil.EtudesSecondaires,
			Fichiers:          s.Fichiers,
			Reference:         s.Maintenant,
		},
		ValidatorQuestionsSpecifiques{Questions: s.Questions, Reponses: p.ReponsesQuestionsSpecifiques, Fichiers: s.Fichiers},
		ValidatorQuota{Soumises: s.NombrePropositionsSoumises, Maximum: s.Maximum},
	}
}

// FraisDossierDus: в общем контексте сбор платят все, кроме уже
// учившихся в университете.
func (p *Proposition) FraisDossierDus(pr Profil) bool {
	if p.Contexte() != formation.ContexteGenerale {
		return false
	}
	return pr.Curriculum == nil || len(pr.Curriculum.InscriptionsInternes) == 0
}

func (p *Proposition) assimilationConcernee(pr Profil) bool {
	id := pr.Identification
	if id == nil || id.PaysNationaliteUE || id.EstBelge() || p.Comptabilite == nil {
		return false
	}
	t := p.Comptabilite.TypeSituationAssimilation
	return t != "" && t != profil.AssimilationAucune
}

// Soumettre подаёт заявку: все правила проверяются за один проход, затем
// инициализируются чеклисты и пересчитываются документы.
func (p *Proposition) Soumettre(s Soumission) ([]document.EmplacementDocument, error) {
	if !PeutExecuter(OpSoumettre, p.Contexte(), p.Statut) {
		return nil, erreurTransition(OpSoumettre, p.Statut)
	}
	if err := validation.RunValidators(p.ValidatorsSoumission(s)...); err != nil {
		return nil, err
	}

	dus := p.FraisDossierDus(s.Profil)
	to := StatutConfirmee
	if dus {
		to = StatutFraisDossierEnAttente
	}
	if err := VerifierTransition(OpSoumettre, p.Contexte(), p.Statut, to); err != nil {
		return nil, err
	}

	var experiences []string
	if s.Profil.Curriculum != nil {
		experiences = s.Profil.Curriculum.Identifiants()
	}
	actuelle := checklist.Initialiser(checklist.Initialisation{
		Contexte:              p.Contexte(),
		Experiences:           experiences,
		AssimilationConcernee: p.assimilationConcernee(s.Profil),
		FraisDossierDus:       dus,
	})

	now := s.Maintenant
	p.Statut = to
	p.SoumiseLe = &now
	p.ChecklistActuelle = actuelle
	p.ChecklistInitiale = actuelle.Clone()
	p.nettoyerReponses(s.Questions)
	p.toucher(s.Auteur, now)
	return p.RecalculerDocuments(p.Resume(s.Profil, s.Questions, s.Fichiers)), nil
}

// nettoyerReponses удаляет ответы на вопросы, которых больше нет.
func (p *Proposition) nettoyerReponses(questions []document.QuestionSpecifique) {
	actives := make(map[string]bool, len(questions))
	for _, q := range questions {
		actives[q.UUID] = true
	}
	for id := range p.ReponsesQuestionsSpecifiques {
		if !actives[id] {
			delete(p.ReponsesQuestionsSpecifiques, id)
		}
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DOSSIER FEES
// ══════════════════════════════════════════════════════════════════════════════

// VerifierPaiementAttendu проверяет, что заявка ждёт оплаты сбора. Эта
// проверка выполняется до обращения к платёжному сервису.
func (p *Proposition) VerifierPaiementAttendu() error {
	if p.Contexte() != formation.ContexteGenerale {
		return erreurTransition(OpPayerFraisDossier, p.Statut)
	}
	var frais *checklist.StatutChecklist
	if p.ChecklistActuelle != nil {
		frais = p.ChecklistActuelle.FraisDossier
	}
	enAttente := p.Statut == StatutFraisDossierEnAttente && (frais == nil || frais.Statut != checklist.SystReussite)
	return validation.Run(validation.Require(enAttente, PropositionPourPaiementInvalide()))
}

// PayerFraisDossier фиксирует результат оплаты, полученный от платёжного
// сервиса.
func (p *Proposition) PayerFraisDossier(effectue bool, auteur string, now time.Time) error {
	if err := p.VerifierPaiementAttendu(); err != nil {
		return err
	}
	if err := validation.Run(validation.Require(effectue, PaiementNonRealise())); err != nil {
		return err
	}
	if err := VerifierTransition(OpPayerFraisDossier, p.Contexte(), p.Statut, StatutConfirmee); err != nil {
		return err
	}

	p.fraisDossier("PAYES")
	p.Statut = StatutConfirmee
	p.toucher(auteur, now)
	return nil
}

// SpecifierPaiementPlusNecessaire освобождает кандидата от оплаты.
func (p *Proposition) SpecifierPaiementPlusNecessaire(dispense bool, auteur string, now time.Time) error {
	to, err := p.destination(OpSpecifierPaiementPlusNecessaire)
	if err != nil {
		return err
	}
	if dispense {
		p.fraisDossier("DISPENSE")
	} else {
		p.fraisDossier("NON_CONCERNE")
	}
	p.Statut = to
	p.toucher(auteur, now)
	return nil
}

// SpecifierPaiementNecessaire снова требует оплату.
func (p *Proposition) SpecifierPaiementNecessaire(auteur string, now time.Time) error {
	to, err := p.destination(OpSpecifierPaiementNecessaire)
	if err != nil {
		return err
	}
	p.fraisDossier("EN_ATTENTE")
	p.Statut = to
	p.toucher(auteur, now)
	return nil
}

func (p *Proposition) fraisDossier(identifiant string) {
	if p.ChecklistActuelle == nil {
		p.ChecklistActuelle = &checklist.StatutsChecklist{}
	}
	if p.ChecklistActuelle.FraisDossier == nil {
		p.ChecklistActuelle.FraisDossier = checklist.Nouveau(checklist.InitialNonConcerne, checklist.LibelleFraisNonConcerne)
	}
	checklist.MustAppliquer(checklist.OngletFraisDossier, p.ChecklistActuelle.FraisDossier, identifiant)
}

// ══════════════════════════════════════════════════════════════════════════════
// FACULTY
// ══════════════════════════════════════════════════════════════════════════════

// EnvoyerALaFac передаёт заявку факультету.
func (p *Proposition) EnvoyerALaFac(auteur string, now time.Time) error {
	to, err := p.destination(OpEnvoyerALaFac)
	if err != nil {
		return err
	}
	decision, err := p.zone(p.ongletDecisionFac())
	if err != nil {
		return err
	}
	checklist.MustAppliquer(p.ongletDecisionFac(), decision, "PRIS_EN_CHARGE")
	p.Statut = to
	p.toucher(auteur, now)
	return nil
}

// ApprouverParFac фиксирует согласие факультета.
func (p *Proposition) ApprouverParFac(auteur string, now time.Time) error {
	to, err := p.destination(OpApprouverParFac)
	if err != nil {
		return err
	}
	err = validation.RunValidators(
		ValidatorTitresAcces{Titres: p.TitresAcces},
		ValidatorComplementsFormation{Avec: p.AvecComplementsFormation, Complements: p.ComplementsFormation},
	)
	if err != nil {
		return err
	}
	decision, err := p.zone(p.ongletDecisionFac())
	if err != nil {
		return err
	}

	id := "APPROUVE"
	if p.Contexte() == formation.ContexteDoctorat {
		id = "ACCORD"
	}
	checklist.MustAppliquer(p.ongletDecisionFac(), decision, id)
	p.Statut = to
	p.toucher(auteur, now)
	return nil
}

// RefuserParFac фиксирует отказ факультета; окончательное решение
// остаётся за центральной администрацией.
func (p *Proposition) RefuserParFac(motifs []string, auteur string, now time.Time) error {
	to, err := p.destination(OpRefuserParFac)
	if err != nil {
		return err
	}
	if err := validation.RunValidators(ValidatorMotifsRefus{Motifs: motifs}); err != nil {
		return err
	}
	decision, err := p.zone(p.ongletDecisionFac())
	if err != nil {
		return err
	}

	checklist.MustAppliquer(p.ongletDecisionFac(), decision, "REFUS")
	p.MotifsRefus = append([]string(nil), motifs...)
	p.Statut = to
	p.toucher(auteur, now)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENT REQUESTS
// ══════════════════════════════════════════════════════════════════════════════

// Demandeur: кто запрашивает документы у кандидата.
type Demandeur string

const (
	DemandeurFac Demandeur = "FAC"
	DemandeurSic Demandeur = "SIC"
)

// ReclamerDocuments отправляет кандидату все слоты A_RECLAMER и возвращает
// их идентификаторы.
func (p *Proposition) ReclamerDocuments(par Demandeur, dateLimite time.Time, auteur string, now time.Time) ([]string, error) {
	op := OpReclamerDocumentsSic
	if par == DemandeurFac {
		op = OpReclamerDocumentsFac
	}
	to, err := p.destination(op)
	if err != nil {
		return nil, err
	}
	ids := p.DocumentsDemandes.Filtrer(func(d document.DemandeDocument) bool {
		return d.Statut == document.StatutAReclamer
	})
	if err := validation.Run(validation.Require(len(ids) > 0, AucunDocumentAReclamer())); err != nil {
		return nil, err
	}

	for _, id := range ids {
		d := p.DocumentsDemandes[id]
		d.Statut = document.StatutReclame
		d.ReclameLe = now
		d.DateLimite = dateLimite
		d.DernierActeur = auteur
		d.DerniereActionLe = now
		p.DocumentsDemandes[id] = d
	}
	p.Statut = to
	p.toucher(auteur, now)
	return ids, nil
}

// AnnulerReclamation отзывает запрос: слоты снова ждут отправки.
func (p *Proposition) AnnulerReclamation(auteur string, now time.Time) error {
	to, err := p.destination(OpAnnulerReclamation)
	if err != nil {
		return err
	}
	for _, id := range p.DocumentsDemandes.Filtrer(func(d document.DemandeDocument) bool {
		return d.Statut == document.StatutReclame
	}) {
		d := p.DocumentsDemandes[id]
		d.Statut = document.StatutAReclamer
		d.DateLimite = time.Time{}
		d.DernierActeur = auteur
		d.DerniereActionLe = now
		p.DocumentsDemandes[id] = d
	}
	p.Statut = to
	p.toucher(auteur, now)
	return nil
}

// CompleterDocuments принимает ответы кандидата на запрос. Ответить можно
// только на слоты RECLAME; статус меняется, когда не остаётся срочных
// запросов. Возвращает идентификаторы заполненных слотов.
func (p *Proposition) CompleterDocuments(reponses map[string][]string, auteur string, now time.Time) ([]string, error) {
	to, err := p.destination(OpCompleterDocuments)
	if err != nil {
		return nil, err
	}
	for id := range reponses {
		if d, ok := p.DocumentsDemandes[id]; !ok || d.Statut != document.StatutReclame {
			return nil, shared.WrapError("proposition", string(OpCompleterDocuments), shared.ErrInvalidState,
				"slot "+id, shared.ErrEmplacementNonReclame)
		}
	}

	var completes []string
	for _, id := range p.DocumentsDemandes.Identifiants() {
		if len(reponses[id]) == 0 {
			continue
		}
		d := p.DocumentsDemandes[id]
		d.Statut = document.StatutValide
		d.DernierActeur = auteur
		d.DerniereActionLe = now
		p.DocumentsDemandes[id] = d
		completes = append(completes, id)
	}
	if len(p.DocumentsDemandes.ReclamesImmediatement()) == 0 {
		p.Statut = to
	}
	p.toucher(auteur, now)
	return completes, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CENTRAL ADMINISTRATION (SIC)
// ══════════════════════════════════════════════════════════════════════════════

// EnvoyerAValidationDirection передаёт авторизацию на подпись дирекции.
func (p *Proposition) EnvoyerAValidationDirection(auteur string, now time.Time) error {
	to, err := p.destination(OpEnvoyerAValidationDirection)
	if err != nil {
		return err
	}
	decision, err := p.zone(checklist.OngletDecisionSic)
	if err != nil {
		return err
	}
	checklist.MustAppliquer(checklist.OngletDecisionSic, decision, "AUTORISATION_A_VALIDER")
	p.Statut = to
	p.toucher(auteur, now)
	return nil
}

// Слоты, которые кандидат обязан дослать после авторизации.
var (
	IdentifiantAutorisationSignee = document.Identifiant(string(document.OngletSuiteAutorisation), "AUTORISATION_PDF_SIGNEE")
	IdentifiantVisaEtudes         = document.Identifiant(string(document.OngletSuiteAutorisation), "VISA_ETUDES")
)

// ApprouverParSic авторизует регистрацию.
func (p *Proposition) ApprouverParSic(auteur string, now time.Time) error {
	to, err := p.destination(OpApprouverParSic)
	if err != nil {
		return err
	}
	var parcours *checklist.StatutChecklist
	if p.ChecklistActuelle != nil {
		parcours = p.ChecklistActuelle.ParcoursAnterieur
	}
	err = validation.RunValidators(ValidatorApprobationSic{
		AvecConditionsComplementaires: p.AvecConditionsComplementaires,
		ConditionsComplementaires:     p.ConditionsComplementaires,
		NombreAnneesPrevoirProgramme:  p.NombreAnneesPrevoirProgramme,
		ParcoursAnterieur:             parcours,
		DocumentsDemandes:             p.DocumentsDemandes,
	})
	if err != nil {
		return err
	}
	decision, err := p.zone(checklist.OngletDecisionSic)
	if err != nil {
		return err
	}

	checklist.MustAppliquer(checklist.OngletDecisionSic, decision, "AUTORISE")
	p.DocumentsDemandes.Forcer(IdentifiantAutorisationSignee, document.ReclamationUlterieurementBloquant, auteur, now)
	if p.DoitFournirVisaEtudes {
		p.DocumentsDemandes.Forcer(IdentifiantVisaEtudes, document.ReclamationUlterieurementBloquant, auteur, now)
	}
	p.Statut = to
	p.toucher(auteur, now)
	return nil
}

// RefuserParSic окончательно отказывает в регистрации.
func (p *Proposition) RefuserParSic(motifs []string, auteur string, now time.Time) error {
	to, err := p.destination(OpRefuserParSic)
	if err != nil {
		return err
	}
	if err := validation.RunValidators(ValidatorMotifsRefus{Motifs: motifs}); err != nil {
		return err
	}
	decision, err := p.zone(checklist.OngletDecisionSic)
	if err != nil {
		return err
	}

	checklist.MustAppliquer(checklist.OngletDecisionSic, decision, "REFUSE")
	p.MotifsRefus = append([]string(nil), motifs...)
	p.Statut = to
	p.toucher(auteur, now)
	return nil
}

// Annuler отменяет черновик по просьбе кандидата.
func (p *Proposition) Annuler(auteur string, now time.Time) error {
	to, err := p.destination(OpAnnuler)
	if err != nil {
		return err
	}
	p.Statut = to
	p.toucher(auteur, now)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MANAGER DECISION DATA
// ══════════════════════════════════════════════════════════════════════════════

// SpecifierConditionAcces сохраняет условие доступа и выбранные титулы.
func (p *Proposition) SpecifierConditionAcces(condition string, titres []TitreAcces, typeEquivalence string, auteur string, now time.Time) error {
	if err := p.modifiable("SpecifierConditionAcces"); err != nil {
		return err
	}
	p.ConditionAcces = condition
	p.TitresAcces = append([]TitreAcces(nil), titres...)
	p.TypeEquivalenceTitreAcces = typeEquivalence
	p.toucher(auteur, now)
	return nil
}

// InformationsAcceptation: данные, которые менеджеры заполняют перед
// утверждением.
type InformationsAcceptation struct {
	AvecConditionsComplementaires *bool
	ConditionsComplementaires     []string
	AvecComplementsFormation      *bool
	ComplementsFormation          []string
	NombreAnneesPrevoirProgramme  *int
	DoitFournirVisaEtudes         bool
}

// SpecifierInformationsAcceptation сохраняет условия утверждения.
func (p *Proposition) SpecifierInformationsAcceptation(i InformationsAcceptation, auteur string, now time.Time) error {
	if err := p.modifiable("SpecifierInformationsAcceptation"); err != nil {
		return err
	}
	p.AvecConditionsComplementaires = i.AvecConditionsComplementaires
	p.ConditionsComplementaires = append([]string(nil), i.ConditionsComplementaires...)
	p.AvecComplementsFormation = i.AvecComplementsFormation
	p.ComplementsFormation = append([]string(nil), i.ComplementsFormation...)
	p.NombreAnneesPrevoirProgramme = i.NombreAnneesPrevoirProgramme
	p.DoitFournirVisaEtudes = i.DoitFournirVisaEtudes
	p.toucher(auteur, now)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CHECKLIST
// ══════════════════════════════════════════════════════════════════════════════

// ModifierStatutChecklist переводит область в настроенный статус.
// Для parcours_anterieur используйте ModifierStatutChecklistParcoursAnterieur.
func (p *Proposition) ModifierStatutChecklist(onglet checklist.Onglet, identifiant string, auteur string, now time.Time) (checklist.ConfigurationStatut, error) {
	if err := p.modifiable("ModifierStatutChecklist"); err != nil {
		return checklist.ConfigurationStatut{}, err
	}
	if onglet == checklist.OngletParcoursAnterieur {
		return checklist.ConfigurationStatut{}, shared.NewDomainError("proposition", "ModifierStatutChecklist",
			shared.ErrInvalidInput, "prior curriculum has a dedicated operation")
	}
	zone, err := p.zone(onglet)
	if err != nil {
		return checklist.ConfigurationStatut{}, err
	}
	cfg, err := checklist.Choisir(onglet, zone, identifiant)
	if err != nil {
		return checklist.ConfigurationStatut{}, err
	}
	p.toucher(auteur, now)
	return cfg, nil
}

// ParcoursAnterieur: данные для перевода parcours_anterieur.
type ParcoursAnterieur struct {
	// Statut - идентификатор настроенного статуса (A_TRAITER, SUFFISANT...).
	Statut string

	ExperiencesValorisees []string
	EtudesSecondaires     *profil.EtudesSecondaires
}

// ModifierStatutChecklistParcoursAnterieur переводит область прошлого
// обучения. Перевод в GEST_REUSSITE проверяется бизнес-правилами.
func (p *Proposition) ModifierStatutChecklistParcoursAnterieur(pa ParcoursAnterieur, auteur string, now time.Time) (checklist.ConfigurationStatut, error) {
	if err := p.modifiable("ModifierStatutChecklistParcoursAnterieur"); err != nil {
		return checklist.ConfigurationStatut{}, err
	}
	parcours, err := p.zone(checklist.OngletParcoursAnterieur)
	if err != nil {
		return checklist.ConfigurationStatut{}, err
	}
	cfgOnglet, _ := checklist.ConfigurationOnglet(checklist.OngletParcoursAnterieur)
	cible, ok := cfgOnglet.Statut(pa.Statut)
	if !ok {
		return checklist.ConfigurationStatut{}, shared.ErrStatutChecklistInvalide
	}
	if !checklist.PeutPasser(parcours.Statut, cible.Statut) {
		return checklist.ConfigurationStatut{}, shared.WrapError("checklist", "Changer", shared.ErrStateTransition,
			string(parcours.Statut)+" -> "+string(cible.Statut), shared.ErrTransitionChecklist)
	}

	if cible.Statut == checklist.GestReussite {
		err := validation.RunValidators(ValidatorParcoursSuffisant{
			ConditionAcces:            p.ConditionAcces,
			Titres:                    p.TitresAcces,
			Parcours:                  parcours,
			ExperiencesValorisees:     pa.ExperiencesValorisees,
			Formation:                 p.Formation,
			EtudesSecondaires:         pa.EtudesSecondaires,
			TypeEquivalenceTitreAcces: p.TypeEquivalenceTitreAcces,
		})
		if err != nil {
			return checklist.ConfigurationStatut{}, err
		}
	}

	cfg, err := checklist.Choisir(checklist.OngletParcoursAnterieur, parcours, pa.Statut)
	if err != nil {
		return checklist.ConfigurationStatut{}, err
	}
	p.toucher(auteur, now)
	return cfg, nil
}

func (p *Proposition) enfantParcours(op, uuidExperience string) (*checklist.StatutChecklist, error) {
	parcours, err := p.zone(checklist.OngletParcoursAnterieur)
	if err != nil {
		return nil, err
	}
	enfant := parcours.Enfant(uuidExperience)
	if enfant == nil {
		return nil, shared.WrapError("proposition", op, shared.ErrNotFound,
			"experience "+uuidExperience, shared.ErrExperienceNonTrouvee)
	}
	return enfant, nil
}

// ModifierStatutChecklistExperience меняет статус проверки одного опыта.
func (p *Proposition) ModifierStatutChecklistExperience(uuidExperience string, statut checklist.StatutValidationExperience, auteur string, now time.Time) error {
	if err := p.modifiable("ModifierStatutChecklistExperience"); err != nil {
		return err
	}
	enfant, err := p.enfantParcours("ModifierStatutChecklistExperience", uuidExperience)
	if err != nil {
		return err
	}
	if err := enfant.ModifierStatutValidation(statut); err != nil {
		return err
	}
	p.toucher(auteur, now)
	return nil
}

// ModifierAuthentificationExperience фиксирует ход проверки подлинности
// документов опыта.
func (p *Proposition) ModifierAuthentificationExperience(uuidExperience string, etat checklist.EtatAuthentificationParcours, commentaire string, auteur string, now time.Time) error {
	if err := p.modifiable("ModifierAuthentificationExperience"); err != nil {
		return err
	}
	enfant, err := p.enfantParcours("ModifierAuthentificationExperience", uuidExperience)
	if err != nil {
		return err
	}
	if err := enfant.ModifierAuthentification(etat, commentaire); err != nil {
		return err
	}
	p.toucher(auteur, now)
	return nil
}

// SynchroniserParcours приводит дочерние узлы parcours_anterieur к
// текущему списку опытов.
func (p *Proposition) SynchroniserParcours(identifiants []string) error {
	parcours, err := p.zone(checklist.OngletParcoursAnterieur)
	if err != nil {
		return err
	}
	parcours.SynchroniserEnfants(identifiants)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// FREE & INDIVIDUAL SLOTS
// ══════════════════════════════════════════════════════════════════════════════

// CreerEmplacementLibre добавляет слот, созданный менеджером, и возвращает
// его идентификатор.
func (p *Proposition) CreerEmplacementLibre(e document.EmplacementLibre, auteur string, now time.Time) (string, error) {
	if err := p.modifiable("CreerEmplacementLibre"); err != nil {
		return "", err
	}
	id, record, err := document.NouvelEmplacementLibre(e, auteur, now)
	if err != nil {
		return "", err
	}
	if p.DocumentsDemandes == nil {
		p.DocumentsDemandes = document.DocumentsDemandes{}
	}
	p.DocumentsDemandes[id] = record
	p.toucher(auteur, now)
	return id, nil
}

// ModifierReclamationEmplacement помечает слот как подлежащий запросу.
// Слот должен быть либо сохранён, либо входить в каталог резюме r.
func (p *Proposition) ModifierReclamationEmplacement(r *document.Resume, identifiant string, urgence document.StatutReclamationEmplacementDocument, raison string, auteur string, now time.Time) error {
	if err := p.modifiable("ModifierReclamationEmplacement"); err != nil {
		return err
	}
	if !urgence.IsValid() || urgence == document.ReclamationAucune {
		return shared.NewDomainError("proposition", "ModifierReclamationEmplacement", shared.ErrInvalidInput, "request urgency is required")
	}
	typ, ok := p.typeEmplacement(r, identifiant)
	if !ok {
		return shared.WrapError("proposition", "ModifierReclamationEmplacement", shared.ErrNotFound,
			"slot "+identifiant, shared.ErrEmplacementNonTrouve)
	}
	if !typ.EstReclamable() {
		return shared.WrapError("proposition", "ModifierReclamationEmplacement", shared.ErrInvalidState,
			"slot "+identifiant, shared.ErrEmplacementNonModifiable)
	}
	if p.DocumentsDemandes == nil {
		p.DocumentsDemandes = document.DocumentsDemandes{}
	}
	p.DocumentsDemandes.Forcer(identifiant, urgence, auteur, now)
	d := p.DocumentsDemandes[identifiant]
	d.Raison = raison
	p.DocumentsDemandes[identifiant] = d
	p.toucher(auteur, now)
	return nil
}

// typeEmplacement ищет слот среди сохранённых запросов, затем в каталоге.
func (p *Proposition) typeEmplacement(r *document.Resume, identifiant string) (document.TypeEmplacementDocument, bool) {
	if d, ok := p.DocumentsDemandes[identifiant]; ok {
		return d.Type, true
	}
	if r == nil {
		return "", false
	}
	for _, e := range document.BuildCatalog(r) {
		if e.Identifiant == identifiant {
			return e.Type, true
		}
	}
	return "", false
}

// AnnulerReclamationEmplacement отменяет запрос одного слота. Свободный
// слот удаляется целиком.
func (p *Proposition) AnnulerReclamationEmplacement(identifiant string, auteur string, now time.Time) error {
	if err := p.modifiable("AnnulerReclamationEmplacement"); err != nil {
		return err
	}
	d, ok := p.DocumentsDemandes[identifiant]
	if !ok {
		return shared.WrapError("proposition", "AnnulerReclamationEmplacement", shared.ErrNotFound,
			"slot "+identifiant, shared.ErrEmplacementNonTrouve)
	}
	if d.Statut != document.StatutAReclamer {
		return shared.WrapError("proposition", "AnnulerReclamationEmplacement", shared.ErrInvalidState,
			"slot "+identifiant, shared.ErrEmplacementNonModifiable)
	}

	if d.Type.EstLibre() {
		delete(p.DocumentsDemandes, identifiant)
	} else {
		d.Statut = document.StatutNonAnalyse
		d.StatutReclamation = document.ReclamationAucune
		d.ReclameLe = time.Time{}
		d.DateLimite = time.Time{}
		d.Raison = ""
		d.DernierActeur = auteur
		d.DerniereActionLe = now
		p.DocumentsDemandes[identifiant] = d
	}
	p.toucher(auteur, now)
	return nil
}
