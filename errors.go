package gazette

import (
	"github.com/rcolvin/gazette/internal/compress"
	"github.com/rcolvin/gazette/internal/store"
)

// Sentinel errors surfaced by engine operations. Callers match them
// with errors.Is.
var (
	ErrDuplicateContent = store.ErrDuplicateContent
	ErrNotFound         = store.ErrNotFound
	ErrInvalidFilter    = store.ErrInvalidFilter
	ErrCorruptData      = compress.ErrCorruptData
)
