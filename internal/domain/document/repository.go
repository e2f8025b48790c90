package document

import "context"

// Repository stores the request records and uploaded file references of
// the document slots of a proposition.
// Implementations live in infrastructure (postgres, memory).
type Repository interface {
	// Get returns one slot as stored.
	// Returns shared.ErrEmplacementNonTrouve when unknown.
	Get(ctx context.Context, uuidProposition, identifiant string) (*EmplacementDocument, error)

	// Search returns the stored slots among identifiants (all when empty)
	// whose status is one of statuts (any when empty), ordered by identifier.
	Search(ctx context.Context, uuidProposition string, identifiants []string, statuts ...StatutEmplacementDocument) ([]EmplacementDocument, error)

	// SaveMultiple upserts the request record and file references of each slot.
	SaveMultiple(ctx context.Context, uuidProposition string, emplacements []EmplacementDocument) error

	// CompleterDocumentsParCandidat attaches uploaded files to slots.
	CompleterDocumentsParCandidat(ctx context.Context, uuidProposition string, reponses map[string][]string) error

	// Fichiers returns the uploaded file references keyed by slot identifier.
	Fichiers(ctx context.Context, uuidProposition string) (map[string][]string, error)
}
