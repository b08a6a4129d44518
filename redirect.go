package soilcheck

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"unicode"

	"github.com/asaskevich/govalidator"
	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const fnValidateRedirectURL = "ValidateRedirectURL"

// ValidateRedirectURL reports whether raw is safe to redirect to.
//
// raw must be a string without whitespace or control characters. Relative
// references are resolved against the base URL from [WithBaseURL]; without
// one they are rejected. The result must use http or https and name a valid
// host. When allowedDomains is non-empty the host must equal one of them or
// be a subdomain of one.
func (v *Validator) ValidateRedirectURL(raw any, allowedDomains ...string) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			v.recovered(fnValidateRedirectURL, p, raw)
			ok = false
		}
	}()

	host, reason := v.checkRedirect(raw, allowedDomains)
	if reason != "" {
		attrs := []slog.Attr{slog.Any("url", raw)}
		if host != "" {
			attrs = append(attrs, slog.String("host", host))
		}
		v.reject(fnValidateRedirectURL, reason, attrs...)
		return false
	}
	return true
}

// checkRedirect returns the resolved host along with the rejection reason,
// if any.
func (v *Validator) checkRedirect(raw any, allowedDomains []string) (string, Reason) {
	s, ok := asString(raw)
	if !ok {
		return "", ReasonTypeMismatch
	}
	if s == "" || strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return "", ReasonParseFailure
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", ReasonParseFailure
	}
	if !u.IsAbs() {
		if v.base == nil {
			return "", ReasonParseFailure
		}
		u = v.base.ResolveReference(u)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ReasonUnsafeScheme
	}

	host := strings.ToLower(u.Hostname())
	if host == "" || !(govalidator.IsDNSName(host) || govalidator.IsIP(host)) {
		return host, ReasonParseFailure
	}
	if len(allowedDomains) > 0 && !domainAllowed(host, allowedDomains) {
		return host, ReasonDomainNotAllowed
	}
	return host, ""
}

// domainAllowed reports whether host equals a listed domain or ends in
// "."+domain. Empty entries never match.
func domainAllowed(host string, domains []string) bool {
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

type allowedDomainsKey struct{}

// WithAllowedDomains returns a copy of ctx carrying the redirect hosts that
// context-aware rules, such as those of [Deposit], should accept.
func WithAllowedDomains(ctx context.Context, domains ...string) context.Context {
	return context.WithValue(ctx, allowedDomainsKey{}, append([]string(nil), domains...))
}

// AllowedDomains returns the hosts set by [WithAllowedDomains], or nil.
func AllowedDomains(ctx context.Context) []string {
	domains, _ := ctx.Value(allowedDomainsKey{}).([]string)
	return domains
}

type redirectRule struct {
	domains []string
}

// RedirectURL returns a rule requiring an absolute http or https URL, limited
// to domains when any are given. Empty strings and nil pointers are skipped.
func RedirectURL(domains ...string) Rule {
	return redirectRule{domains: domains}
}

func (r redirectRule) Validate(value any) error {
	if _, isNil := validation.Indirect(value); isNil {
		return nil
	}
	s, ok := asString(value)
	if !ok {
		return errNotString
	}
	if s == "" {
		return nil
	}
	switch _, reason := quiet.checkRedirect(s, r.domains); reason {
	case "":
		return nil
	case ReasonDomainNotAllowed:
		return errURLDomain
	default:
		return errUnsafeURL
	}
}

func (r redirectRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Format = "uri"
	if len(r.domains) > 0 {
		appendDescription(ref, "host must be one of ("+strings.Join(r.domains, ",")+") or a subdomain")
	}
	return nil
}
