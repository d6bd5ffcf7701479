package leads

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Field identifies a form field, or the pseudo-field used for submit failures.
type Field string

const (
	FieldName   Field = "name"
	FieldEmail  Field = "email"
	FieldPhone  Field = "phone"
	FieldSubmit Field = "submit"
)

// Validation messages surfaced next to each field.
const (
	MsgNameRequired  = "name is required"
	MsgEmailRequired = "email is required"
	MsgEmailInvalid  = "email format is invalid"
	MsgPhoneRequired = "phone is required"
	MsgSubmitFailed  = "submission failed, try again"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Submission is a lead captured by the link page form.
type Submission struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Complete reports whether every field is present. This is the coarse
// server-side check: no trimming and no email shape check.
func (s Submission) Complete() bool {
	return s.Name != "" && s.Email != "" && s.Phone != ""
}

// Get returns the value of a form field.
func (s Submission) Get(field Field) (string, bool) {
	switch field {
	case FieldName:
		return s.Name, true
	case FieldEmail:
		return s.Email, true
	case FieldPhone:
		return s.Phone, true
	default:
		return "", false
	}
}

// Set overwrites a form field. It reports false for fields that are not part
// of the submission.
func (s *Submission) Set(field Field, value string) bool {
	switch field {
	case FieldName:
		s.Name = value
	case FieldEmail:
		s.Email = value
	case FieldPhone:
		s.Phone = value
	default:
		return false
	}
	return true
}

// ValidationErrors maps a failing field to a human-readable message.
type ValidationErrors map[Field]string

// Empty reports whether no field is failing.
func (v ValidationErrors) Empty() bool {
	return len(v) == 0
}

// Has reports whether field has an error.
func (v ValidationErrors) Has(field Field) bool {
	_, ok := v[field]
	return ok
}

// Fields returns the failing fields in a stable order.
func (v ValidationErrors) Fields() []Field {
	fields := make([]Field, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// Clone returns an independent copy.
func (v ValidationErrors) Clone() ValidationErrors {
	out := make(ValidationErrors, len(v))
	for k, msg := range v {
		out[k] = msg
	}
	return out
}

// Validate applies the form rules to s. Every rule is evaluated; the result
// holds one entry per failing field and is empty when s is valid.
func Validate(s Submission) ValidationErrors {
	errs := ValidationErrors{}

	if blank(s.Name) {
		errs[FieldName] = MsgNameRequired
	}

	if blank(s.Email) {
		errs[FieldEmail] = MsgEmailRequired
	} else if !ValidEmail(s.Email) {
		errs[FieldEmail] = MsgEmailInvalid
	}

	if blank(s.Phone) {
		errs[FieldPhone] = MsgPhoneRequired
	}

	return errs
}

// ValidEmail checks the local@domain.tld shape. Any whitespace, including
// leading or trailing, fails the check.
func ValidEmail(email string) bool {
	if strings.IndexFunc(email, isFormSpace) >= 0 {
		return false
	}
	return emailPattern.MatchString(email)
}

// isFormSpace reports unicode white space plus the byte order mark, which
// browsers strip when trimming form input.
func isFormSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func blank(value string) bool {
	return strings.TrimFunc(value, isFormSpace) == ""
}

// SendResponse is the success body of the notification endpoint.
type SendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// ErrorResponse is the failure body of the notification endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}
