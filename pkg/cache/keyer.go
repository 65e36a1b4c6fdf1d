package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer builds cache keys.
type Keyer interface {
	// ResourceKey is the key of a fetched image resource.
	ResourceKey(src string) string
	// ArtifactKey is the key of a rendered artifact of the document with
	// the given content hash.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change artifact output.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Scale      float64 `json:"scale,omitempty"`
	EmbedFonts bool    `json:"embed_fonts,omitempty"`
	Locale     string  `json:"locale,omitempty"`
	Fonts      string  `json:"fonts,omitempty"` // hash of the registered font set
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultKeyer produces unscoped keys: "resource:<hash>" and
// "artifact:<hash>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResourceKey implements Keyer.
func (DefaultKeyer) ResourceKey(src string) string {
	return "resource:" + Hash([]byte(src))
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	// Struct fields always marshal.
	data, _ := json.Marshal(struct {
		Doc  string          `json:"doc"`
		Opts ArtifactKeyOpts `json:"opts"`
	}{docHash, opts})
	return "artifact:" + Hash(data)
}

// ScopedKeyer prefixes another keyer's keys, so that several environments
// can share one Redis or Mongo backend.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ResourceKey implements Keyer.
func (k *ScopedKeyer) ResourceKey(src string) string {
	return k.prefix + k.inner.ResourceKey(src)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(docHash, opts)
}
