package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContractTemplateLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tmpl, err := f.templates.CreateContractTemplate(ctx, f.userID, "Contrato Base", "base.pdf", []byte("pdf-bytes"))
	require.NoError(t, err)

	list, err := f.templates.ListContractTemplates(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got, data, err := f.templates.ContractTemplateFile(ctx, f.userID, tmpl.ID)
	require.NoError(t, err)
	require.Equal(t, "Contrato Base", got.Name)
	require.Equal(t, []byte("pdf-bytes"), data)

	// Another user's read and delete both behave as not found.
	other, err := f.sessions.Register(ctx, "otra@example.com", "correct-horse")
	require.NoError(t, err)
	_, _, err = f.templates.ContractTemplateFile(ctx, other.ID, tmpl.ID)
	require.ErrorIs(t, err, ErrTemplateNotFound)
	require.ErrorIs(t, f.templates.DeleteContractTemplate(ctx, other.ID, tmpl.ID), ErrTemplateNotFound)

	require.NoError(t, f.templates.DeleteContractTemplate(ctx, f.userID, tmpl.ID))
	_, _, err = f.templates.ContractTemplateFile(ctx, f.userID, tmpl.ID)
	require.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestQuestionnaireTemplateKeepsQuestionOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	texts := []string{"Primera?", "Segunda?", "Tercera?"}
	tmpl, created, err := f.templates.CreateQuestionnaireTemplate(ctx, f.userID, "Intake", texts)
	require.NoError(t, err)
	require.Len(t, created, 3)

	_, questions, err := f.templates.GetQuestionnaireTemplate(ctx, f.userID, tmpl.ID)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	for i, q := range questions {
		require.Equal(t, texts[i], q.QuestionText)
		require.Equal(t, i, q.OrderIndex)
	}
}

func TestCreateQuestionnaireTemplateRejectsEmptyQuestions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.templates.CreateQuestionnaireTemplate(ctx, f.userID, "Intake", nil)
	require.ErrorIs(t, err, ErrInvalidTemplateRequest)

	_, _, err = f.templates.CreateQuestionnaireTemplate(ctx, f.userID, "Intake", []string{"Valida?", ""})
	require.ErrorIs(t, err, ErrInvalidTemplateRequest)
}

func TestProfileUpdateAndLogo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Registration created an empty profile.
	profile, err := f.profiles.GetProfile(ctx, f.userID)
	require.NoError(t, err)
	require.Empty(t, profile.FirmName)

	profile, err = f.profiles.UpdateProfile(ctx, f.userID, "Lopez y Asociados", "https://cal.example.com/lopez")
	require.NoError(t, err)
	require.Equal(t, "Lopez y Asociados", profile.FirmName)

	_, err = f.profiles.LogoFile(ctx, f.userID)
	require.ErrorIs(t, err, ErrLogoNotFound)

	profile, err = f.profiles.UploadLogo(ctx, f.userID, []byte("png-bytes"))
	require.NoError(t, err)
	require.NotEmpty(t, profile.FirmLogoKey)

	data, err := f.profiles.LogoFile(ctx, f.userID)
	require.NoError(t, err)
	require.Equal(t, []byte("png-bytes"), data)
}
