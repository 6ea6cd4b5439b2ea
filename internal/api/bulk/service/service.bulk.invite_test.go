package bulksvc

import (
	"context"
	"errors"
	"sync"
	"testing"

	authmodels "engagement_survey/internal/api/auth/models"
	"engagement_survey/internal/delivery/channels"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []channels.Email
}

func (m *recordingMailer) Send(_ context.Context, mail channels.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, mail)
	return nil
}

type fakeCompanies map[string]string

func (f fakeCompanies) CompanyName(_ context.Context, id string) (string, error) {
	name, ok := f[id]
	if !ok {
		return "", errors.New("company not found")
	}
	return name, nil
}

func TestMailInviter(t *testing.T) {
	company := primitive.NewObjectID()
	mailer := &recordingMailer{}
	inviter := NewMailInviter(mailer, fakeCompanies{company.Hex(): "Acme & Co"}, "https://app.acme.io")

	err := inviter.Invite(context.Background(), authmodels.User{CompanyID: company, FirstName: "An", Email: "an+hr@acme.io"})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	mail := mailer.sent[0]
	assert.Equal(t, "an+hr@acme.io", mail.To)
	assert.Contains(t, mail.Subject, "Acme & Co")
	assert.Contains(t, mail.HTML, "Acme &amp; Co")
	assert.Contains(t, mail.HTML, "https://app.acme.io/signup?email=an%2Bhr%40acme.io")

	err = inviter.Invite(context.Background(), authmodels.User{CompanyID: primitive.NewObjectID(), Email: "x@acme.io"})
	assert.Error(t, err)
	assert.Len(t, mailer.sent, 1)
}
