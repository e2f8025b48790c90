package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROPOSITION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// PropositionRepository implements proposition.Repository for PostgreSQL.
// The aggregate is stored as JSONB; the columns next to it carry what
// searches filter on.
type PropositionRepository struct {
	conn *Connection
}

// NewPropositionRepository creates a new PropositionRepository.
func NewPropositionRepository(conn *Connection) *PropositionRepository {
	return &PropositionRepository{conn: conn}
}

const propositionColumns = `uuid, reference, version, data`

// Get implements proposition.Repository.
func (r *PropositionRepository) Get(ctx context.Context, uuid string) (*proposition.Proposition, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+propositionColumns+` FROM propositions WHERE uuid = $1`, uuid)

	p, err := scanProposition(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrPropositionNonTrouvee
		}
		return nil, fmt.Errorf("failed to get proposition: %w", err)
	}
	return p, nil
}

// Save implements proposition.Repository. A zero Version inserts; any other
// Version updates only when the stored row still carries it.
func (r *PropositionRepository) Save(ctx context.Context, p *proposition.Proposition) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal proposition: %w", err)
	}

	if p.Version == 0 {
		query := `
			INSERT INTO propositions (
				uuid, matricule_candidat, statut, contexte, sigle_formation, annee_formation,
				soumise_le, cree_le, modifiee_le, version, data
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10)
			RETURNING reference
		`
		var reference int64
		err := r.conn.QueryRow(ctx, query,
			p.UUID,
			p.MatriculeCandidat,
			string(p.Statut),
			string(p.Contexte()),
			p.Formation.Sigle,
			p.Formation.Annee,
			p.SoumiseLe,
			p.CreeLe,
			p.ModifieeLe,
			data,
		).Scan(&reference)
		if err != nil {
			if IsUniqueViolation(err) {
				return concurrentModification()
			}
			return fmt.Errorf("failed to create proposition: %w", err)
		}
		p.Reference = reference
		p.Version = 1
		return nil
	}

	query := `
		UPDATE propositions SET
			statut = $1,
			soumise_le = $2,
			modifiee_le = $3,
			version = version + 1,
			data = $4
		WHERE uuid = $5 AND version = $6
	`
	tag, err := r.conn.Exec(ctx, query,
		string(p.Statut),
		p.SoumiseLe,
		p.ModifieeLe,
		data,
		p.UUID,
		p.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update proposition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return concurrentModification()
	}
	p.Version++
	return nil
}

// Search implements proposition.Repository.
func (r *PropositionRepository) Search(ctx context.Context, filtre proposition.Filtre) ([]*proposition.Proposition, error) {
	var (
		conditions []string
		args       []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filtre.Matricule != "" {
		conditions = append(conditions, "matricule_candidat = "+arg(filtre.Matricule))
	}
	if filtre.Contexte != "" {
		conditions = append(conditions, "contexte = "+arg(string(filtre.Contexte)))
	}
	if filtre.AnneeFormation > 0 {
		conditions = append(conditions, "annee_formation = "+arg(filtre.AnneeFormation))
	}
	if len(filtre.Statuts) > 0 {
		conditions = append(conditions, "statut = ANY("+arg(statutsStrings(filtre.Statuts))+")")
	}

	query := `SELECT ` + propositionColumns + ` FROM propositions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY cree_le DESC, uuid ASC"
	if filtre.Pagination.Page > 0 || filtre.Pagination.PageSize > 0 {
		query += " LIMIT " + arg(filtre.Pagination.Limit()) + " OFFSET " + arg(filtre.Pagination.Offset())
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search propositions: %w", err)
	}
	defer rows.Close()

	var result []*proposition.Proposition
	for rows.Next() {
		p, err := scanProposition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proposition: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// CountSoumises implements proposition.Repository.
func (r *PropositionRepository) CountSoumises(ctx context.Context, matricule string) (int, error) {
	query := `SELECT COUNT(*) FROM propositions WHERE matricule_candidat = $1 AND NOT (statut = ANY($2))`

	var n int
	err := r.conn.QueryRow(ctx, query, matricule, statutsStrings(statutsNonComptes)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count propositions: %w", err)
	}
	return n, nil
}

// statutsNonComptes are the statuses that are either not submitted or closed.
var statutsNonComptes = []proposition.ChoixStatutProposition{
	proposition.StatutEnBrouillon,
	proposition.StatutEnAttenteDeSignature,
	proposition.StatutAnnulee,
	proposition.StatutInscriptionAutorisee,
	proposition.StatutInscriptionRefusee,
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func scanProposition(row pgx.Row) (*proposition.Proposition, error) {
	var (
		uuid      string
		reference int64
		version   int
		data      []byte
	)
	if err := row.Scan(&uuid, &reference, &version, &data); err != nil {
		return nil, err
	}

	var p proposition.Proposition
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal proposition %s: %w", uuid, err)
	}
	p.UUID = uuid
	p.Reference = reference
	p.Version = version
	p.CreeLe = p.CreeLe.UTC()
	p.ModifieeLe = p.ModifieeLe.UTC()
	if p.SoumiseLe != nil {
		t := p.SoumiseLe.UTC()
		p.SoumiseLe = &t
	}
	return &p, nil
}

func statutsStrings(statuts []proposition.ChoixStatutProposition) []string {
	out := make([]string, len(statuts))
	for i, s := range statuts {
		out[i] = string(s)
	}
	return out
}

func concurrentModification() error {
	return shared.WrapError("proposition", "Save", shared.ErrConcurrentModification,
		"proposition was modified concurrently", nil)
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }
