package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/ignite/audience-subscribe/internal/domain"
)

const maxBodyBytes = 1 << 20

// params holds request parameters decoded from a JSON body, a form body or
// the query string. Form keys in bracket notation (merge_fields[FNAME],
// interests[]) are expanded into nested maps and lists.
type params map[string]any

// formRequest is the normalized input of every audience endpoint.
type formRequest struct {
	Email      string
	AudienceID string
	Redirect   string
	Permanent  bool
	Options    domain.SubscriptionOptions

	// deprecated lists the legacy parameter names the caller used.
	deprecated []string
}

func readParams(r *http.Request) (params, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" && r.Body != nil && r.Body != http.NoBody {
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
		dec.UseNumber()
		var body map[string]any
		if err := dec.Decode(&body); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		p := params(body)
		if p == nil {
			p = params{}
		}
		// Query parameters fill gaps, so ?audienceId= works with JSON bodies.
		for key, value := range expandForm(r.URL.Query()) {
			if _, ok := p[key]; !ok {
				p[key] = value
			}
		}
		return p, nil
	}

	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxBodyBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, fmt.Errorf("invalid form body: %w", err)
	}
	return expandForm(r.Form), nil
}

func expandForm(values url.Values) params {
	out := params{}
	for key, vals := range values {
		setFormValue(out, parseFormKey(key), vals)
	}
	return out
}

// parseFormKey splits "a[b][]" into ["a", "b", ""].
func parseFormKey(key string) []string {
	i := strings.IndexByte(key, '[')
	if i <= 0 {
		return []string{key}
	}
	parts := []string{key[:i]}
	rest := key[i:]
	for len(rest) > 0 {
		if rest[0] != '[' {
			return []string{key}
		}
		j := strings.IndexByte(rest, ']')
		if j < 0 {
			return []string{key}
		}
		parts = append(parts, rest[1:j])
		rest = rest[j+1:]
	}
	return parts
}

func setFormValue(root map[string]any, path []string, vals []string) {
	m := root
	for i, part := range path {
		last := i == len(path)-1
		appendNext := i == len(path)-2 && path[i+1] == ""

		switch {
		case appendNext:
			list, _ := m[part].([]any)
			for _, v := range vals {
				list = append(list, v)
			}
			m[part] = list
			return
		case last:
			if len(vals) == 1 {
				m[part] = vals[0]
				return
			}
			list := make([]any, 0, len(vals))
			for _, v := range vals {
				list = append(list, v)
			}
			m[part] = list
			return
		}

		child, ok := m[part].(map[string]any)
		if !ok {
			child = map[string]any{}
			m[part] = child
		}
		m = child
	}
}

func (p params) has(key string) bool {
	_, ok := p[key]
	return ok
}

// present reports whether key was sent with a non-null value. A JSON null
// counts as omitted.
func (p params) present(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

func (p params) str(key string) string {
	return strings.TrimSpace(stringValue(p[key]))
}

func (p params) boolean(key string) bool {
	b, _ := boolValue(p[key])
	return b
}

func (p params) optionalBool(key string) *bool {
	if !p.present(key) {
		return nil
	}
	b, _ := boolValue(p[key])
	return &b
}

func (p params) object(key string) map[string]any {
	m, _ := p[key].(map[string]any)
	return m
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	case []any:
		if len(t) > 0 {
			return stringValue(t[0])
		}
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// boolValue accepts JSON booleans and the form words on, yes, 1 and true.
// The second result reports whether v looked like a boolean at all.
func boolValue(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case json.Number:
		return t.String() != "0", true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "on", "yes", "1", "true":
			return true, true
		case "off", "no", "0", "false", "":
			return false, true
		}
	}
	return false, false
}

// stringList reads a list parameter. A plain string is split on commas.
func stringList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, stringValue(item))
		}
		return out
	case []string:
		return t
	case map[string]any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, stringValue(item))
		}
		return out
	case string:
		return strings.Split(t, ",")
	case nil:
		return nil
	default:
		return []string{stringValue(t)}
	}
}

// interestSelection reads the interests parameter in any of the shapes
// forms post:
//
//	["id1", "id2"] or "id1,id2"         every listed id set to true
//	{"id1": true, "id2": "off"}         explicit values, form words allowed
//	{"Group title": ["id1", "id2"]}     group titles are dropped, ids set to true
//	{"Group title": "id1"}              title mapped to a single id
//
// Form-encoded bodies produce the same shapes, e.g. interests[abc123]=on.
func interestSelection(v any) domain.InterestSelection {
	out := domain.InterestSelection{}
	switch t := v.(type) {
	case []any, string:
		for _, id := range stringList(t) {
			if id = strings.TrimSpace(id); id != "" {
				out[id] = true
			}
		}
	case map[string]any:
		for key, value := range t {
			switch inner := value.(type) {
			case []any, map[string]any:
				for _, id := range stringList(inner) {
					if id = strings.TrimSpace(id); id != "" {
						out[id] = true
					}
				}
			default:
				if b, ok := boolValue(inner); ok {
					out[key] = b
				} else if id := strings.TrimSpace(stringValue(inner)); id != "" {
					// {"Group title": "id"}
					out[id] = true
				}
			}
		}
	}
	return out
}

func decodeRequest(p params) formRequest {
	req := formRequest{
		Email:      p.str("email"),
		AudienceID: p.str("audienceId"),
		Redirect:   p.str("redirect"),
		Permanent:  p.boolean("permanent"),
	}

	if req.AudienceID == "" && p.has("lid") {
		req.AudienceID = p.str("lid")
		req.deprecated = append(req.deprecated, "lid")
	}

	opts := domain.SubscriptionOptions{
		EmailType: p.str("email_type"),
		Language:  p.str("language"),
		VIP:       p.optionalBool("vip"),
	}
	if p.has("emailtype") {
		req.deprecated = append(req.deprecated, "emailtype")
		if legacy := p.str("emailtype"); legacy != "" {
			opts.EmailType = legacy
		}
	}
	if opts.EmailType == "" {
		opts.EmailType = domain.DefaultEmailType
	}

	if fields := p.object("merge_fields"); len(fields) > 0 {
		opts.MergeFields = fields
	}
	if p.present("interests") {
		opts.Interests = interestSelection(p["interests"])
	}

	if mcvars := p.object("mcvars"); mcvars != nil {
		req.deprecated = append(req.deprecated, "mcvars")
		legacy := make(map[string]any, len(mcvars))
		for key, value := range mcvars {
			if key == "interests" {
				if opts.Interests == nil && value != nil {
					opts.Interests = interestSelection(value)
				}
				continue
			}
			legacy[key] = value
		}
		if opts.MergeFields == nil && len(legacy) > 0 {
			opts.MergeFields = legacy
		}
	}

	if p.present("marketing_permissions") {
		opts.MarketingPermissions = stringList(p["marketing_permissions"])
	}
	if p.present("tags") {
		opts.Tags = stringList(p["tags"])
	}

	req.Options = opts
	return req
}

// safeRedirect accepts only same-site paths.
func safeRedirect(target string) bool {
	if target == "" || !strings.HasPrefix(target, "/") {
		return false
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
