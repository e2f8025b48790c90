package proposition

import (
	"context"
	"errors"
	"fmt"

	"github.com/alem-hub/admission-workflow/internal/domain/profil"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// ChargerProfil собирает снимок профиля кандидата заявки.
// Неизвестный кандидат даёт пустой снимок без ошибки: правила подачи
// сообщают о нём как CandidatNonTrouve.
func ChargerProfil(ctx context.Context, t profil.Translator, p *Proposition, anneeCourante int) (Profil, error) {
	var pr Profil
	matricule := p.MatriculeCandidat

	id, err := t.GetIdentification(ctx, matricule)
	if err != nil {
		if errors.Is(err, shared.ErrCandidatNonTrouve) || shared.IsNotFound(err) {
			return pr, nil
		}
		return pr, fmt.Errorf("failed to load identification: %w", err)
	}
	pr.Identification = id

	if pr.Coordonnees, err = t.GetCoordonnees(ctx, matricule); err != nil {
		return pr, fmt.Errorf("failed to load addresses: %w", err)
	}
	if pr.Langues, err = t.GetLanguesConnues(ctx, matricule); err != nil {
		return pr, fmt.Errorf("failed to load languages: %w", err)
	}
	if pr.EtudesSecondaires, err = t.GetEtudesSecondaires(ctx, matricule); err != nil {
		return pr, fmt.Errorf("failed to load secondary studies: %w", err)
	}
	if pr.Examen, err = t.GetExamen(ctx, matricule, p.Formation); err != nil {
		return pr, fmt.Errorf("failed to load exam: %w", err)
	}
	if pr.Curriculum, err = t.GetCurriculum(ctx, matricule, anneeCourante, p.UUID); err != nil {
		return pr, fmt.Errorf("failed to load curriculum: %w", err)
	}
	return pr, nil
}
