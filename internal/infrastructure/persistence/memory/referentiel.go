package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/formation"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// AcademicYearRepository serves the default calendar: every year from
// 14 September to 13 September.
type AcademicYearRepository struct{}

// NewAcademicYearRepository creates the repository.
func NewAcademicYearRepository() *AcademicYearRepository {
	return &AcademicYearRepository{}
}

// Get implements proposition.AcademicYearRepository.
func (r *AcademicYearRepository) Get(_ context.Context, annee int) (shared.AnneeAcademique, error) {
	if annee <= 0 {
		return shared.AnneeAcademique{}, shared.ErrAnneeAcademiqueInconnu
	}
	return shared.NewAnneeAcademique(annee), nil
}

// Courante implements proposition.AcademicYearRepository.
func (r *AcademicYearRepository) Courante(_ context.Context, date time.Time) (shared.AnneeAcademique, error) {
	a := shared.NewAnneeAcademique(date.Year())
	if date.Before(a.Debut) {
		a = shared.NewAnneeAcademique(date.Year() - 1)
	}
	return a, nil
}

// QuestionsSpecifiquesRepository keeps the questions configured per training.
type QuestionsSpecifiquesRepository struct {
	mu        sync.RWMutex
	questions map[string][]document.QuestionSpecifique
}

// NewQuestionsSpecifiquesRepository creates an empty repository.
func NewQuestionsSpecifiquesRepository() *QuestionsSpecifiquesRepository {
	return &QuestionsSpecifiquesRepository{questions: make(map[string][]document.QuestionSpecifique)}
}

func cleFormation(f formation.Formation) string {
	return fmt.Sprintf("%s-%d", f.Sigle, f.Annee)
}

// Configurer replaces the questions of a training.
func (r *QuestionsSpecifiquesRepository) Configurer(f formation.Formation, questions ...document.QuestionSpecifique) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions[cleFormation(f)] = questions
}

// Search implements proposition.QuestionsSpecifiquesRepository.
func (r *QuestionsSpecifiquesRepository) Search(_ context.Context, f formation.Formation) ([]document.QuestionSpecifique, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]document.QuestionSpecifique(nil), r.questions[cleFormation(f)]...), nil
}
