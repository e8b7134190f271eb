package codec

import (
	"fmt"
	"sync"

	"github.com/multiformats/go-multicodec"
)

// Registry is a mapping from multicodec code to codec implementation.
// A process-wide Default registry is populated by each
// concrete codec package's func init(), the same way
// go-ipld-prime/codec/dagjson registers itself into the global
// multicodec table on import; callers that want an isolated registry
// (e.g. for tests, or to add a codec that doesn't want to be
// process-global) can construct their own with NewRegistry.
//
// The register-once-or-panic shape is adapted from
// distribution/registry/api/errcode's error code registry, which uses
// the same "global map guarded by a mutex, panic on a duplicate key"
// pattern for a different kind of process-wide registration table.
type Registry struct {
	mu       sync.RWMutex
	encoders map[multicodec.Code]Encoder
	decoders map[multicodec.Code]Decoder
	walkers  map[multicodec.Code]ReferenceWalker
}

func NewRegistry() *Registry {
	return &Registry{
		encoders: map[multicodec.Code]Encoder{},
		decoders: map[multicodec.Code]Decoder{},
		walkers:  map[multicodec.Code]ReferenceWalker{},
	}
}

// Default is the process-wide registry that built-in codecs register
// themselves into.
var Default = NewRegistry()

// RegisterEncoder adds (or replaces) the Encoder for code.
func (r *Registry) RegisterEncoder(code multicodec.Code, enc Encoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.encoders[code] = enc
}

// RegisterDecoder adds (or replaces) the Decoder for code.
func (r *Registry) RegisterDecoder(code multicodec.Code, dec Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[code] = dec
}

// RegisterWalker adds (or replaces) the ReferenceWalker for code.
func (r *Registry) RegisterWalker(code multicodec.Code, w ReferenceWalker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.walkers[code] = w
}

// MustRegisterCodec registers an encoder, decoder, and walker in one call
// and panics if an encoder is already registered for code — the shape concrete
// codec packages use from their init() functions.
func (r *Registry) MustRegisterCodec(code multicodec.Code, enc Encoder, dec Decoder, walk ReferenceWalker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.encoders[code]; ok {
		panic(fmt.Sprintf("codec: encoder for %s already registered", code))
	}
	r.encoders[code] = enc
	r.decoders[code] = dec
	r.walkers[code] = walk
}

func (r *Registry) Encoder(code multicodec.Code) (Encoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	enc, ok := r.encoders[code]
	return enc, ok
}

func (r *Registry) Decoder(code multicodec.Code) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dec, ok := r.decoders[code]
	return dec, ok
}

func (r *Registry) Walker(code multicodec.Code) (ReferenceWalker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.walkers[code]
	return w, ok
}
