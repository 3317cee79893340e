package mail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"

	"github.com/rgcpoolandspa/poolsite/internal/config"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
)

func testInquiry() *models.Inquiry {
	return &models.Inquiry{
		ID:            7,
		Name:          "Jane <Doe>",
		Email:         "j@example.com",
		Town:          "Springfield",
		Service:       "Pool Repair",
		Message:       "leak",
		SelectedSizes: []string{"18' Round", "24' Round"},
		Source:        models.SourceProduct,
		CreatedAt:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRender(t *testing.T) {
	msg, err := Render(testInquiry(), &models.Product{Name: "Deluxe Pool"})
	require.NoError(t, err)

	assert.Equal(t, "New Inquiry: Pool Repair - Jane <Doe>", msg.Subject)
	assert.Contains(t, msg.HTML, "Jane &lt;Doe&gt;")
	assert.Contains(t, msg.HTML, "Deluxe Pool")
	assert.Contains(t, msg.HTML, "18&#39; Round, 24&#39; Round")
	assert.Contains(t, msg.Text, "leak")
	assert.Contains(t, msg.Text, "Springfield")
	assert.NotContains(t, msg.Text, "<td>")
}

func TestRenderWithoutProduct(t *testing.T) {
	inq := testInquiry()
	inq.SelectedSizes = nil
	inq.Town = ""

	msg, err := Render(inq, nil)
	require.NoError(t, err)

	assert.NotContains(t, msg.HTML, "Product")
	assert.NotContains(t, msg.HTML, "Sizes")
	assert.NotContains(t, msg.HTML, "Town")
}

func TestNew(t *testing.T) {
	assert.IsType(t, Disabled{}, New(config.Mail{}))
	assert.IsType(t, Disabled{}, New(config.Mail{Enabled: true}))
	assert.IsType(t, &SMTP{}, New(config.Mail{Enabled: true, Host: "smtp.example.com"}))
}

func TestDisabledNotify(t *testing.T) {
	require.NoError(t, Disabled{}.NotifyInquiry(context.Background(), testInquiry(), nil))
}

func TestSMTPMessage(t *testing.T) {
	s := &SMTP{cfg: config.Mail{From: "site@example.com", To: "owner@example.com"}}

	msg, err := s.message(Message{Subject: "hello", HTML: "<p>hi</p>", Text: "hi"}, "j@example.com")
	require.NoError(t, err)

	require.Len(t, msg.GetFromString(), 1)
	assert.Contains(t, msg.GetFromString()[0], "site@example.com")
	require.Len(t, msg.GetToString(), 1)
	assert.Contains(t, msg.GetToString()[0], "owner@example.com")

	s.cfg.From = "not an address"
	_, err = s.message(Message{}, "")
	require.Error(t, err)
}

func TestTLSPolicy(t *testing.T) {
	assert.Equal(t, gomail.TLSMandatory, tlsPolicy("Mandatory"))
	assert.Equal(t, gomail.NoTLS, tlsPolicy("none"))
	assert.Equal(t, gomail.TLSOpportunistic, tlsPolicy(""))
}
