package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// DocumentRepository implements document.Repository for PostgreSQL.
// Uploaded file references live in their own column so that recomputing
// the request record of a slot never drops them.
type DocumentRepository struct {
	conn *Connection
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(conn *Connection) *DocumentRepository {
	return &DocumentRepository{conn: conn}
}

// Get implements document.Repository.
func (r *DocumentRepository) Get(ctx context.Context, uuidProposition, identifiant string) (*document.EmplacementDocument, error) {
	query := `
		SELECT identifiant, uuids_documents, data
		FROM emplacements_documents
		WHERE uuid_proposition = $1 AND identifiant = $2
	`
	e, err := scanEmplacement(r.conn.QueryRow(ctx, query, uuidProposition, identifiant))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrEmplacementNonTrouve
		}
		return nil, fmt.Errorf("failed to get document slot: %w", err)
	}
	return &e, nil
}

// Search implements document.Repository.
func (r *DocumentRepository) Search(ctx context.Context, uuidProposition string, identifiants []string, statuts ...document.StatutEmplacementDocument) ([]document.EmplacementDocument, error) {
	query := `
		SELECT identifiant, uuids_documents, data
		FROM emplacements_documents
		WHERE uuid_proposition = $1
		  AND (cardinality($2::text[]) = 0 OR identifiant = ANY($2))
		  AND (cardinality($3::text[]) = 0 OR statut = ANY($3))
		ORDER BY identifiant
	`
	filtreStatuts := make([]string, len(statuts))
	for i, s := range statuts {
		filtreStatuts[i] = string(s)
	}
	if identifiants == nil {
		identifiants = []string{}
	}

	rows, err := r.conn.Query(ctx, query, uuidProposition, identifiants, filtreStatuts)
	if err != nil {
		return nil, fmt.Errorf("failed to search document slots: %w", err)
	}
	defer rows.Close()

	var result []document.EmplacementDocument
	for rows.Next() {
		e, err := scanEmplacement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document slot: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// SaveMultiple implements document.Repository. Files already attached to a
// slot are kept when the new view carries none.
func (r *DocumentRepository) SaveMultiple(ctx context.Context, uuidProposition string, emplacements []document.EmplacementDocument) error {
	query := `
		INSERT INTO emplacements_documents (uuid_proposition, identifiant, statut, uuids_documents, data, modifie_le)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (uuid_proposition, identifiant) DO UPDATE SET
			statut = EXCLUDED.statut,
			uuids_documents = CASE
				WHEN cardinality(EXCLUDED.uuids_documents) = 0 THEN emplacements_documents.uuids_documents
				ELSE EXCLUDED.uuids_documents
			END,
			data = EXCLUDED.data,
			modifie_le = EXCLUDED.modifie_le
	`

	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, e := range emplacements {
			fichiers := e.UUIDsDocuments
			if fichiers == nil {
				fichiers = []string{}
			}
			e.UUIDsDocuments = nil
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal slot %s: %w", e.Identifiant, err)
			}
			batch.Queue(query, uuidProposition, e.Identifiant, string(e.Statut), fichiers, data, now())
		}

		results := tx.SendBatch(ctx, batch)
		for range emplacements {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return fmt.Errorf("failed to save document slots: %w", err)
			}
		}
		return results.Close()
	})
}

// CompleterDocumentsParCandidat implements document.Repository.
func (r *DocumentRepository) CompleterDocumentsParCandidat(ctx context.Context, uuidProposition string, reponses map[string][]string) error {
	query := `
		INSERT INTO emplacements_documents (uuid_proposition, identifiant, uuids_documents, data, modifie_le)
		VALUES ($1, $2, $3, jsonb_build_object('identifiant', $2::text), $4)
		ON CONFLICT (uuid_proposition, identifiant) DO UPDATE SET
			uuids_documents = EXCLUDED.uuids_documents,
			modifie_le = EXCLUDED.modifie_le
	`

	ids := make([]string, 0, len(reponses))
	for id := range reponses {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		for _, id := range ids {
			fichiers := reponses[id]
			if fichiers == nil {
				fichiers = []string{}
			}
			if _, err := tx.Exec(ctx, query, uuidProposition, id, fichiers, now()); err != nil {
				return fmt.Errorf("failed to attach files to %s: %w", id, err)
			}
		}
		return nil
	})
}

// Fichiers implements document.Repository.
func (r *DocumentRepository) Fichiers(ctx context.Context, uuidProposition string) (map[string][]string, error) {
	query := `
		SELECT identifiant, uuids_documents
		FROM emplacements_documents
		WHERE uuid_proposition = $1 AND cardinality(uuids_documents) > 0
	`
	rows, err := r.conn.Query(ctx, query, uuidProposition)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploaded files: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var (
			id       string
			fichiers []string
		)
		if err := rows.Scan(&id, &fichiers); err != nil {
			return nil, fmt.Errorf("failed to scan uploaded files: %w", err)
		}
		out[id] = fichiers
	}
	return out, rows.Err()
}

func scanEmplacement(row pgx.Row) (document.EmplacementDocument, error) {
	var (
		e        document.EmplacementDocument
		id       string
		fichiers []string
		data     []byte
	)
	if err := row.Scan(&id, &fichiers, &data); err != nil {
		return e, err
	}
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("failed to unmarshal slot %s: %w", id, err)
	}
	e.Identifiant = id
	if len(fichiers) > 0 {
		e.UUIDsDocuments = fichiers
	}
	return e, nil
}
