// Package ledger records platform usage: every completed prompt or image
// request can be written to a Ledger so token counts and spend are auditable
// after the fact. Two implementations exist: an in-memory ledger for tests
// and short-lived tools, and a PostgreSQL ledger for durable accounting.
package ledger

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"regexp"
	"time"

	"github.com/modelfan/modelfan-go/pkg/api"
)

// Sentinel errors for ledger operations.
var (
	// ErrNotFound is returned when an entry does not exist.
	ErrNotFound = errors.New("ledger entry not found")

	// ErrConflict is returned when an entry with the given ID already exists.
	ErrConflict = errors.New("ledger entry already exists")
)

// Entry is one recorded platform request.
type Entry struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"` // caller-supplied tag, e.g. a job name
	Model     string    `json:"model"`
	Usage     api.Usage `json:"usage"`
	Price     api.Price `json:"price"`
	Words     api.Words `json:"words"`
	CreatedAt time.Time `json:"created_at"`
}

// Totals aggregates spend and token usage across entries.
type Totals struct {
	Entries     int     `json:"entries"`
	TotalTokens int     `json:"total_tokens"`
	TotalPrice  float64 `json:"total_price"`
}

// ListOptions filters and bounds a List call.
type ListOptions struct {
	Model string // filter by model, empty matches all
	Label string // filter by label, empty matches all
	Limit int    // 0 means the implementation default (100)
}

// Ledger persists usage entries.
type Ledger interface {
	// Record stores an entry. Returns ErrConflict if the entry ID is taken.
	Record(ctx context.Context, e *Entry) error

	// Get retrieves an entry by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Entry, error)

	// List returns entries matching opts, newest first.
	List(ctx context.Context, opts ListOptions) ([]*Entry, error)

	// Totals aggregates over entries matching opts (Limit is ignored).
	Totals(ctx context.Context, opts ListOptions) (*Totals, error)

	// HealthCheck verifies the backing store is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the ledger.
	Close() error
}

const (
	idLength      = 24
	idCharset     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	entryIDPrefix = "led_"
)

var entryIDPattern = regexp.MustCompile(`^led_[a-zA-Z0-9]{24}$`)

// NewEntryID generates an entry ID with the "led_" prefix followed by 24
// cryptographically random alphanumeric characters.
func NewEntryID() string {
	max := big.NewInt(int64(len(idCharset)))
	b := make([]byte, idLength)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		b[i] = idCharset[idx.Int64()]
	}
	return entryIDPrefix + string(b)
}

// ValidateEntryID checks whether the given string is a valid entry ID.
func ValidateEntryID(id string) bool {
	return entryIDPattern.MatchString(id)
}

// FromModelResult builds an Entry from a keyed completion result. The caller
// assigns the label; ID and CreatedAt are filled in.
func FromModelResult(model, label string, result api.ModelResult) *Entry {
	return &Entry{
		ID:        NewEntryID(),
		Label:     label,
		Model:     model,
		Usage:     result.Completion.Usage,
		Price:     result.Price,
		Words:     result.Words,
		CreatedAt: time.Now(),
	}
}
