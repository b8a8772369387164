package service

import (
	"context"
	"testing"

	"github.com/despacholink/expediente/internal/expediente/domain"
	"github.com/stretchr/testify/require"
)

func TestCreateClientValidatesInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	contract, err := f.templates.CreateContractTemplate(ctx, f.userID, "Contrato", "c.pdf", []byte("pdf"))
	require.NoError(t, err)
	questionnaire, _, err := f.templates.CreateQuestionnaireTemplate(ctx, f.userID, "Intake", []string{"Pregunta?"})
	require.NoError(t, err)

	base := CreateClientInput{
		ClientName:              "Maria Lopez",
		CaseName:                "Divorcio",
		ContractTemplateID:      contract.ID,
		QuestionnaireTemplateID: questionnaire.ID,
		RequiredDocuments:       []domain.DocumentType{domain.DocumentINE},
	}

	t.Run("rejects empty names", func(t *testing.T) {
		in := base
		in.ClientName = ""
		_, _, err := f.clients.CreateClient(ctx, f.userID, in)
		require.ErrorIs(t, err, ErrInvalidClientRequest)
	})

	t.Run("rejects empty document set", func(t *testing.T) {
		in := base
		in.RequiredDocuments = nil
		_, _, err := f.clients.CreateClient(ctx, f.userID, in)
		require.ErrorIs(t, err, ErrInvalidClientRequest)
	})

	t.Run("rejects unknown document type", func(t *testing.T) {
		in := base
		in.RequiredDocuments = []domain.DocumentType{"pasaporte"}
		_, _, err := f.clients.CreateClient(ctx, f.userID, in)
		require.ErrorIs(t, err, ErrInvalidClientRequest)
	})

	t.Run("rejects missing templates", func(t *testing.T) {
		in := base
		in.ContractTemplateID = "missing"
		_, _, err := f.clients.CreateClient(ctx, f.userID, in)
		require.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("rejects another user's templates", func(t *testing.T) {
		other, err := f.sessions.Register(ctx, "otra@example.com", "correct-horse")
		require.NoError(t, err)

		_, _, err = f.clients.CreateClient(ctx, other.ID, base)
		require.ErrorIs(t, err, ErrTemplateNotFound)
	})
}

func TestMagicLinkTokensAreUnique(t *testing.T) {
	f := newFixture(t)

	_, first := f.seedClient(t, []string{"Pregunta?"}, []domain.DocumentType{domain.DocumentINE})
	_, second := f.seedClient(t, []string{"Pregunta?"}, []domain.DocumentType{domain.DocumentINE})
	require.NotEqual(t, first, second)
}

func TestDeleteClientIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	client, token := f.seedClient(t, []string{"Pregunta?"}, []domain.DocumentType{domain.DocumentINE})

	intruder, err := f.sessions.Register(ctx, "intrusa@example.com", "correct-horse")
	require.NoError(t, err)

	// The cross-tenant delete fails and the case file survives.
	err = f.clients.DeleteClient(ctx, intruder.ID, client.ID)
	require.ErrorIs(t, err, ErrClientNotFound)

	_, err = f.portal.ValidateToken(ctx, token)
	require.NoError(t, err)

	// The owner's delete removes the row and invalidates the link.
	require.NoError(t, f.clients.DeleteClient(ctx, f.userID, client.ID))

	_, err = f.portal.ValidateToken(ctx, token)
	require.ErrorIs(t, err, ErrTokenNotFound)

	_, err = f.clients.GetExpediente(ctx, f.userID, client.ID)
	require.ErrorIs(t, err, ErrClientNotFound)
}

func TestDocumentFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	client, token := f.seedClient(t, []string{"Pregunta?"}, []domain.DocumentType{domain.DocumentINE})

	_, err := f.portal.SignContract(ctx, token, "firma", "203.0.113.9")
	require.NoError(t, err)
	bundle, err := f.portal.UploadDocument(ctx, token, domain.DocumentINE, "ine.jpg", []byte("jpeg-bytes"))
	require.NoError(t, err)
	require.Len(t, bundle.Documents, 1)

	doc, data, err := f.clients.DocumentFile(ctx, f.userID, client.ID, bundle.Documents[0].ID)
	require.NoError(t, err)
	require.Equal(t, "ine.jpg", doc.FileName)
	require.Equal(t, []byte("jpeg-bytes"), data)

	// Document access is scoped through the owning case file.
	intruder, err := f.sessions.Register(ctx, "intrusa@example.com", "correct-horse")
	require.NoError(t, err)
	_, _, err = f.clients.DocumentFile(ctx, intruder.ID, client.ID, bundle.Documents[0].ID)
	require.ErrorIs(t, err, ErrClientNotFound)
}

func TestListClientsNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, _ := f.seedClient(t, []string{"Pregunta?"}, []domain.DocumentType{domain.DocumentINE})
	b, _ := f.seedClient(t, []string{"Pregunta?"}, []domain.DocumentType{domain.DocumentRFC})

	list, err := f.clients.ListClients(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	ids := []string{list[0].ID, list[1].ID}
	require.Contains(t, ids, a.ID)
	require.Contains(t, ids, b.ID)
}
