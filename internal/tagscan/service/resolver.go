package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/BrandonDHaskell/tagscan/internal/observability"
	"github.com/BrandonDHaskell/tagscan/internal/tagscan/inventory"
	"github.com/BrandonDHaskell/tagscan/internal/tagscan/types"
)

// Resolver maps accepted payloads to inventory records.
type Resolver struct {
	index     *inventory.Index
	normalize Normalizer
}

type ResolverOption func(*Resolver)

// WithNormalizer replaces the PassThrough normalization policy.
func WithNormalizer(n Normalizer) ResolverOption {
	return func(r *Resolver) {
		if n != nil {
			r.normalize = n
		}
	}
}

func NewResolver(idx *inventory.Index, opts ...ResolverOption) *Resolver {
	r := &Resolver{index: idx, normalize: PassThrough}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve looks payload up in the index.  A missing record or a payload that
// normalizes to nothing yields NotFound(payload); the only error is
// inventory.ErrNotInitialized.
func (r *Resolver) Resolve(ctx context.Context, payload string) (types.Resolution, error) {
	_, span := observability.StartSpan(ctx, "tagscan.resolve",
		attribute.Int("tagscan.payload_len", len(payload)),
	)
	defer span.End()

	key := r.normalize(payload)
	if key == "" {
		span.SetAttributes(attribute.String("tagscan.outcome", types.OutcomeNotFound.String()))
		return types.NotFound(payload), nil
	}

	rec, ok, err := r.index.Lookup(key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return types.Resolution{}, fmt.Errorf("resolve: %w", err)
	}

	res := types.NotFound(payload)
	if ok {
		res = types.Found(rec, payload)
	}
	span.SetAttributes(attribute.String("tagscan.outcome", res.Outcome.String()))
	return res, nil
}
