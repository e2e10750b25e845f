package provider

import (
	"context"

	"github.com/inkforge/inkforge-api/internal/domain"
)

// Request carries the caller inputs for one generation call, independent
// of any vendor's wire shape.
type Request struct {
	Prompt         string
	Count          int
	ReferenceImage string
	BaseImage      string
	RefStyleImage  string
}

// Result is the tagged view over a vendor's raw response. Each vendor
// implementation carries its own response payload and knows how to read
// image references out of it, so callers never sniff response shapes.
type Result interface {
	// Images returns the produced image payload references in order.
	// An empty list on a successful call is a valid outcome, not an error.
	Images() []string
}

// Adapter defines the interface for invoking an external image-generation
// vendor. This interface serves as a boundary between the application core
// and the heterogeneous vendor APIs: one implementation exists per
// supported provider kind, and adding a vendor never changes callers.
type Adapter interface {
	// Generate invokes the vendor with the given account's credentials
	// and the request inputs. It performs no retries; retry policy, if
	// any, belongs to the caller.
	//
	// Returns the vendor's response behind the Result contract, or an
	// error wrapping ErrProviderCall carrying the vendor's reported
	// message when one could be extracted.
	Generate(ctx context.Context, account domain.Account, req Request) (Result, error)
}
