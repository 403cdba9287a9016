package middleware

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"

	"galleryapi/internal/mimetype"
)

// FileRule declares that a multipart form field accepts file uploads whose
// MIME type must match the Accept pattern. Rules are attached per route at
// registration time; routes without rules are never inspected.
type FileRule struct {
	// Field is the multipart form field name carrying the file(s).
	Field string
	// Accept is a regular expression over MIME types, e.g. `image/.*`.
	Accept string
}

// UploadValidationError reports a rejected file upload. It is a client
// input problem, translated to a 400 by the error handler, never retried.
type UploadValidationError struct {
	Field    string
	Received string
	Accepted []string
}

func (e *UploadValidationError) Error() string {
	quoted := make([]string, len(e.Accepted))
	for i, a := range e.Accepted {
		quoted[i] = "`" + a + "`"
	}
	return fmt.Sprintf("invalid file MIME type for field %q, expected: [%s], but received: `%s`",
		e.Field, strings.Join(quoted, ","), e.Received)
}

type compiledRule struct {
	field  string
	accept string
	pairs  []mimetype.Pair
}

// FileUpload validates uploaded files before the handler body runs.
//
// For each rule, the Accept pattern is expanded against the known
// extension/MIME table once at registration. A file passes only if its
// declared content type equals a matched MIME type AND its filename ends
// with the corresponding extension — the same pair for both. Content type
// and filename are each client-supplied and untrustworthy alone; requiring
// agreement narrows spoofing. Content sniffing is out of scope.
//
// A declared field with no file bound passes; whether the file is required
// is the handler's decision.
func FileUpload(rules ...FileRule) fiber.Handler {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		pattern := regexp.MustCompile(r.Accept)
		compiled = append(compiled, compiledRule{
			field:  r.Field,
			accept: r.Accept,
			pairs:  mimetype.Matches(pattern),
		})
	}

	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil || form == nil {
			return c.Next()
		}

		for _, rule := range compiled {
			for _, fh := range form.File[rule.field] {
				contentType := fh.Header.Get("Content-Type")

				accepted := false
				for _, p := range rule.pairs {
					if contentType == p.MimeType && strings.HasSuffix(fh.Filename, p.Extension) {
						accepted = true
						break
					}
				}
				if !accepted {
					return &UploadValidationError{
						Field:    rule.field,
						Received: contentType,
						Accepted: []string{rule.accept},
					}
				}
			}
		}
		return c.Next()
	}
}
