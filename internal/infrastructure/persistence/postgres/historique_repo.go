package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
)

// HistoriqueRepository implements proposition.HistoriqueService on the
// historique table.
type HistoriqueRepository struct {
	conn *Connection
}

// NewHistoriqueRepository creates a new HistoriqueRepository.
func NewHistoriqueRepository(conn *Connection) *HistoriqueRepository {
	return &HistoriqueRepository{conn: conn}
}

// Historiser appends one entry.
func (r *HistoriqueRepository) Historiser(ctx context.Context, e proposition.EntreeHistorique) error {
	var donnees []byte
	if len(e.Donnees) > 0 {
		var err error
		if donnees, err = json.Marshal(e.Donnees); err != nil {
			return fmt.Errorf("failed to marshal history data: %w", err)
		}
	}

	query := `
		INSERT INTO historique (uuid_proposition, evenement, auteur, message, statut, horodatage, donnees)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.conn.Exec(ctx, query,
		e.UUIDProposition,
		e.Evenement,
		e.Auteur,
		e.Message,
		string(e.Statut),
		e.Horodatage,
		donnees,
	)
	if err != nil {
		return fmt.Errorf("failed to write history entry: %w", err)
	}
	return nil
}

// Lister returns the entries of a proposition, newest first.
func (r *HistoriqueRepository) Lister(ctx context.Context, uuidProposition string) ([]proposition.EntreeHistorique, error) {
	query := `
		SELECT evenement, auteur, message, statut, horodatage, donnees
		FROM historique
		WHERE uuid_proposition = $1
		ORDER BY horodatage DESC, id DESC
	`
	rows, err := r.conn.Query(ctx, query, uuidProposition)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entrees []proposition.EntreeHistorique
	for rows.Next() {
		var (
			e       = proposition.EntreeHistorique{UUIDProposition: uuidProposition}
			statut  string
			donnees []byte
		)
		if err := rows.Scan(&e.Evenement, &e.Auteur, &e.Message, &statut, &e.Horodatage, &donnees); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.Statut = proposition.ChoixStatutProposition(statut)
		e.Horodatage = e.Horodatage.UTC()
		if len(donnees) > 0 {
			if err := json.Unmarshal(donnees, &e.Donnees); err != nil {
				return nil, fmt.Errorf("failed to unmarshal history data: %w", err)
			}
		}
		entrees = append(entrees, e)
	}
	return entrees, rows.Err()
}
