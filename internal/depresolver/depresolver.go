// Package depresolver walks the /content/<id> references embedded in HTML
// and SVG artifacts, ensuring every dependency is itself reconstructed
// before the parent artifact is considered complete.
package depresolver

import (
	"context"
	"regexp"

	"github.com/sirupsen/logrus"

	"zordinals/internal/inscription"
	"zordinals/internal/reconstructor"
)

// dependencyPattern matches a content-store reference of the form
// "/content/<64 hex chars>i<digits>", case-insensitively.
var dependencyPattern = regexp.MustCompile(`(?i)/content/[0-9a-f]{64}i\d+`)

func recursable(mimeType string) bool {
	return mimeType == "text/html" || mimeType == "image/svg+xml"
}

// Resolver recurses into an artifact's /content/ references, ensuring each
// one is reconstructed, and recursing further when the dependency is itself
// HTML or SVG. A visited set keyed by baseTxid prevents cycles.
type Resolver struct {
	recon *reconstructor.Reconstructor
	log   *logrus.Logger
}

// New builds a Resolver around the given Reconstructor.
func New(recon *reconstructor.Reconstructor, log *logrus.Logger) *Resolver {
	return &Resolver{recon: recon, log: log}
}

// Resolve scans buffer for dependency references and ensures each is
// reconstructed, recursing into HTML/SVG dependencies. It only runs at all
// when mimeType is text/html or image/svg+xml; any other mime type is a
// no-op. Failures resolving a single dependency are logged, not returned —
// a broken link in one dependency must not abort the rest of the traversal.
func (r *Resolver) Resolve(ctx context.Context, mimeType string, buffer []byte) {
	if !recursable(mimeType) {
		return
	}
	r.resolve(ctx, mimeType, buffer, map[string]bool{})
}

func (r *Resolver) resolve(ctx context.Context, mimeType string, buffer []byte, visited map[string]bool) {
	if !recursable(mimeType) {
		return
	}

	refs := dependencyPattern.FindAllString(string(buffer), -1)
	seen := map[string]bool{}
	for _, ref := range refs {
		id := ref[len("/content/"):]
		base := inscription.BaseTxid(id)
		if seen[base] {
			continue
		}
		seen[base] = true

		if visited[base] {
			continue
		}
		visited[base] = true

		res, err := r.recon.EnsureInscription(ctx, id)
		if err != nil {
			r.log.WithFields(logrus.Fields{"dependency": id, "err": err}).Warn("depresolver: failed to resolve dependency")
			continue
		}

		r.resolve(ctx, res.MimeType, res.Buffer, visited)
	}
}
