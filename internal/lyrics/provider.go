package lyrics

import "context"

// Provider looks up the lyrics of one song. Implementations never return
// an error directly; every failure is folded into the Outcome.
type Provider interface {
	Search(ctx context.Context, title, artist string) Outcome
}

// Pinger is implemented by providers that verify their credential before
// the first lookup of a run.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Kind tags an Outcome.
type Kind int

const (
	Found Kind = iota
	NotFound
	Failed
)

func (k Kind) String() string {
	switch k {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Outcome is the result of a single lookup. Text is set only for Found,
// Err only for Failed.
type Outcome struct {
	Kind Kind
	Text string
	Err  error
}

func FoundText(text string) Outcome { return Outcome{Kind: Found, Text: text} }

func Missing() Outcome { return Outcome{Kind: NotFound} }

func Failure(err error) Outcome { return Outcome{Kind: Failed, Err: err} }

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(ctx context.Context, title, artist string) Outcome

func (f ProviderFunc) Search(ctx context.Context, title, artist string) Outcome {
	return f(ctx, title, artist)
}
