package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("sita@example.com"))
	assert.True(t, IsValidEmail("yatra.desk+quotes@mail.co.in"))

	for _, email := range []string{"", "sita", "sita@", "@example.com", "sita@localhost", "Sita <sita@example.com>"} {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestIsValidPhone(t *testing.T) {
	for _, phone := range []string{"9876543210", "+91 98765 43210", "(011) 2345-6789"} {
		assert.True(t, IsValidPhone(phone), phone)
	}
	for _, phone := range []string{"", "12345", "98765x43210", "91+9876543210", "1234567890123456"} {
		assert.False(t, IsValidPhone(phone), phone)
	}
}

func TestContact_Validate(t *testing.T) {
	tests := []struct {
		name    string
		contact Contact
		wantErr bool
	}{
		{"complete", Contact{Name: "Sita Devi", Phone: "+91 98765 43210", Email: "sita@example.com"}, false},
		{"email optional", Contact{Name: "Sita Devi", Phone: "9876543210"}, false},
		{"missing name", Contact{Name: "  ", Phone: "9876543210"}, true},
		{"missing phone", Contact{Name: "Sita Devi"}, true},
		{"bad email", Contact{Name: "Sita Devi", Phone: "9876543210", Email: "sita"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.contact.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidQuote)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanTransitionQuote(t *testing.T) {
	assert.True(t, CanTransitionQuote(QuoteReceived, QuoteQuoted))
	assert.True(t, CanTransitionQuote(QuoteReceived, QuoteClosed))
	assert.True(t, CanTransitionQuote(QuoteQuoted, QuoteClosed))

	assert.False(t, CanTransitionQuote(QuoteQuoted, QuoteQuoted))
	assert.False(t, CanTransitionQuote(QuoteQuoted, QuoteReceived))
	assert.False(t, CanTransitionQuote(QuoteClosed, QuoteQuoted))
	assert.False(t, CanTransitionQuote("", QuoteClosed))

	assert.True(t, IsValidQuoteStatus(QuoteQuoted))
	assert.False(t, IsValidQuoteStatus("pending"))
}

func TestQuoteStatusUpdate_Validate(t *testing.T) {
	assert.NoError(t, QuoteStatusUpdate{Status: QuoteQuoted, QuotedCost: 15400}.Validate())
	assert.NoError(t, QuoteStatusUpdate{Status: QuoteClosed}.Validate())

	for _, u := range []QuoteStatusUpdate{
		{Status: QuoteQuoted},
		{Status: QuoteQuoted, QuotedCost: -1},
		{Status: QuoteClosed, QuotedCost: 100},
		{Status: QuoteReceived},
		{Status: "paid", QuotedCost: 100},
	} {
		assert.ErrorIs(t, u.Validate(), ErrInvalidQuote, u.Status)
	}
}
