package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_ValidDraft(t *testing.T) {
	errs := Validate(Submission{Name: "Ana", Email: "ana@x.com", Phone: "999"})
	assert.True(t, errs.Empty())
}

func TestValidate_ReportsExactlyFailingFields(t *testing.T) {
	tests := []struct {
		name string
		sub  Submission
		want []Field
	}{
		{"all empty", Submission{}, []Field{FieldEmail, FieldName, FieldPhone}},
		{"blank name", Submission{Name: "   ", Email: "ana@x.com", Phone: "1"}, []Field{FieldName}},
		{"blank phone", Submission{Name: "Ana", Email: "ana@x.com", Phone: "\t"}, []Field{FieldPhone}},
		{"blank email", Submission{Name: "Ana", Email: " ", Phone: "1"}, []Field{FieldEmail}},
		{"name and phone", Submission{Email: "ana@x.com"}, []Field{FieldName, FieldPhone}},
		{"byte order mark name", Submission{Name: "\ufeff", Email: "ana@x.com", Phone: "1"}, []Field{FieldName}},
		{"byte order mark phone", Submission{Name: "Ana", Email: "ana@x.com", Phone: " \ufeff "}, []Field{FieldPhone}},
		{"byte order mark email", Submission{Name: "Ana", Email: "\ufeff", Phone: "1"}, []Field{FieldEmail}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.sub)
			assert.Equal(t, tt.want, errs.Fields())
			assert.False(t, errs.Has(FieldSubmit))
		})
	}
}

func TestValidate_EmailMessages(t *testing.T) {
	assert.Equal(t, MsgEmailRequired, Validate(Submission{Email: ""})[FieldEmail])
	assert.Equal(t, MsgEmailInvalid, Validate(Submission{Email: "ana"})[FieldEmail])
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ana@x.com", true},
		{"a.b@sub.domain.org", true},
		{"a@b@c.de", true},
		{"ana", false},
		{"ana@x", false},
		{"@x.com", false},
		{"ana@.com", false},
		{"ana@x.", false},
		{"ana @x.com", false},
		{" ana@x.com", false},
		{"ana@x.com ", false},
		{"ana@x.com\u00a0", false},
		{"\ufeffana@x.com", false},
		{"ana@x\n.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.email))
		})
	}
}

func TestSubmission_Complete(t *testing.T) {
	assert.True(t, Submission{Name: "Ana", Email: "e", Phone: "p"}.Complete())
	assert.True(t, Submission{Name: " ", Email: " ", Phone: " "}.Complete())
	assert.False(t, Submission{Name: "", Email: "a@b.com", Phone: "123"}.Complete())
}

func TestSubmission_SetGet(t *testing.T) {
	var s Submission
	assert.True(t, s.Set(FieldName, "Ana"))
	assert.True(t, s.Set(FieldEmail, "ana@x.com"))
	assert.True(t, s.Set(FieldPhone, "999"))
	assert.False(t, s.Set(FieldSubmit, "x"))
	assert.False(t, s.Set(Field("age"), "30"))

	v, ok := s.Get(FieldEmail)
	assert.True(t, ok)
	assert.Equal(t, "ana@x.com", v)
	_, ok = s.Get(FieldSubmit)
	assert.False(t, ok)
}

func TestValidationErrors_Clone(t *testing.T) {
	orig := ValidationErrors{FieldName: MsgNameRequired}
	c := orig.Clone()
	c[FieldPhone] = MsgPhoneRequired
	assert.Len(t, orig, 1)
	assert.Len(t, c, 2)
}
