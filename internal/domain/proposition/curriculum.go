package proposition

import (
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/profil"
	"github.com/alem-hub/admission-workflow/internal/domain/validation"
	"github.com/alem-hub/admission-workflow/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CURRICULUM YEARS
// Кандидат должен объяснить каждый учебный год за последние пять лет
// (но не раньше года после получения аттестата).
// ══════════════════════════════════════════════════════════════════════════════

// NombreAnneesCurriculum: глубина проверки в учебных годах.
const NombreAnneesCurriculum = 5

// Periode: непрерывный промежуток пропущенных месяцев.
type Periode struct {
	Debut time.Time
	Fin   time.Time
}

// Libelle возвращает метку вида "De Septembre 2010 à Février 2011".
func (p Periode) Libelle() string {
	return timeutil.FormatPeriodeFr(p.Debut, p.Fin)
}

// AnneeMinimaleCurriculum возвращает первый учебный год, который нужно
// объяснить.
func AnneeMinimaleCurriculum(cv profil.Curriculum, anneeDiplome int, reference time.Time) int {
	minimum := timeutil.AnneeAcademique(reference) - (NombreAnneesCurriculum - 1)
	if anneeDiplome > 0 && anneeDiplome+1 > minimum {
		minimum = anneeDiplome + 1
	}
	if cv.AnneeDerniereInscription > 0 && cv.AnneeDerniereInscription+1 > minimum {
		minimum = cv.AnneeDerniereInscription + 1
	}
	return minimum
}

// PeriodesManquantes возвращает пропущенные периоды, от старых к новым.
//
// Учебный год Y закрыт, если он есть в академическом опыте или во
// внутренней регистрации без ошибки. Иначе проверяются месяцы с сентября Y
// по февраль Y+1, но не позже месяца, предшествующего дате отсчёта; месяц
// закрыт, если его первое число попадает в неакадемический опыт.
func PeriodesManquantes(cv profil.Curriculum, anneeDiplome int, reference time.Time) []Periode {
	anneeCourante := timeutil.AnneeAcademique(reference)
	minimum := AnneeMinimaleCurriculum(cv, anneeDiplome, reference)
	limite := timeutil.AddMonths(reference, -1)

	couvertes := make(map[int]bool)
	for _, exp := range cv.ExperiencesAcademiques {
		for _, a := range exp.Annees {
			couvertes[a.Annee] = true
		}
	}
	for _, ins := range cv.InscriptionsInternes {
		if !ins.EnErreur {
			couvertes[ins.Annee] = true
		}
	}

	var manquants []time.Time
	for annee := minimum; annee <= anneeCourante; annee++ {
		if couvertes[annee] {
			continue
		}
		fin := timeutil.Date(annee+1, time.February, 1)
		for mois := timeutil.Date(annee, time.September, 1); !mois.After(fin) && !mois.After(limite); mois = timeutil.AddMonths(mois, 1) {
			if !moisCouvert(mois, cv.ExperiencesNonAcademiques) {
				manquants = append(manquants, mois)
			}
		}
	}

	var periodes []Periode
	for _, mois := range manquants {
		n := len(periodes)
		if n > 0 && timeutil.AddMonths(periodes[n-1].Fin, 1).Equal(mois) {
			periodes[n-1].Fin = mois
			continue
		}
		periodes = append(periodes, Periode{Debut: mois, Fin: mois})
	}
	return periodes
}

func moisCouvert(mois time.Time, experiences []profil.ExperienceNonAcademique) bool {
	for _, e := range experiences {
		if e.Debut.IsZero() || e.Fin.IsZero() {
			continue
		}
		if timeutil.InRange(mois, e.Debut, e.Fin) {
			return true
		}
	}
	return false
}

// ReglesCurriculum возвращает по одному правилу на каждый пропущенный период
// и на каждый незавершённый академический опыт.
func ReglesCurriculum(cv profil.Curriculum, anneeDiplome int, reference time.Time) []validation.Rule {
	var rules []validation.Rule
	for _, periode := range PeriodesManquantes(cv, anneeDiplome, reference) {
		rules = append(rules, validation.Require(false, AnneesCurriculumNonSpecifiees(periode.Libelle())))
	}
	for _, exp := range cv.ExperiencesAcademiques {
		rules = append(rules, validation.Require(exp.Complete, ExperiencesAcademiquesNonCompletees(exp.NomFormation)))
	}
	return rules
}

// AnneeDiplomeSecondaire возвращает год аттестата, если он уже получен.
func AnneeDiplomeSecondaire(es *profil.EtudesSecondaires) int {
	if es == nil || es.DiplomeObtenu != profil.DiplomeObtenuOui {
		return 0
	}
	return es.AnneeDiplome
}
