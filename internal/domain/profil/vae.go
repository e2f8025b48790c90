package profil

import "github.com/alem-hub/admission-workflow/pkg/timeutil"

// MoisMinimumVAE is the experience needed to be admitted through the
// validation of prior experience route.
const MoisMinimumVAE = 36

// NombreMoisExperiences sums the months covered by non-academic experiences,
// counting the first and last month of each one.
func NombreMoisExperiences(experiences []ExperienceNonAcademique) int {
	total := 0
	for _, e := range experiences {
		if e.Debut.IsZero() || e.Fin.IsZero() {
			continue
		}
		total += timeutil.MonthsBetween(e.Debut, e.Fin)
	}
	return total
}

// EstEligibleVAE reports whether the candidate may use the VAE route.
func EstEligibleVAE(experiences []ExperienceNonAcademique) bool {
	return NombreMoisExperiences(experiences) >= MoisMinimumVAE
}
