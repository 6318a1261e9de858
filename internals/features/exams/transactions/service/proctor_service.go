// file: internals/features/exams/transactions/service/proctor_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"examku_backend/internals/constants"
	"examku_backend/internals/features/exams/catalogs/directory"
	catalogModel "examku_backend/internals/features/exams/catalogs/model"
	"examku_backend/internals/features/exams/proctoring/pairing"
)

// NewPairingBuilder loads a fresh snapshot of transactions and assistants
// into a staging builder.
func (s *AllocationService) NewPairingBuilder(ctx context.Context) (*pairing.Builder, error) {
	transactions, err := s.Store.FetchTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	users, err := s.Store.FetchUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	return pairing.New(transactions, users, s.Pairing), nil
}

// PairAndCommit submits the staged pairs through the store.
func (s *AllocationService) PairAndCommit(ctx context.Context, b *pairing.Builder) pairing.SubmitResult {
	res := b.Submit(ctx, s.Store)

	for _, f := range res.Failed {
		s.Log.WithFields(logrus.Fields{
			"transaction_code": f.Pair.TransactionCode,
			"assistant_nim":    f.Pair.AssistantNIM,
		}).WithError(f.Err).Warn("proctor assignment failed")
	}
	s.Log.WithFields(logrus.Fields{
		"succeeded":     len(res.Succeeded),
		"failed":        len(res.Failed),
		"retained":      len(b.Pairs()),
		"retain_failed": b.Options().RetainFailed,
	}).Info("pairing submitted")
	return res
}

// AssignProctor sets the proctor of a single transaction.
func (s *AllocationService) AssignProctor(ctx context.Context, transactionCode, assistantNIM string) error {
	transactionCode = strings.TrimSpace(transactionCode)
	assistantNIM = strings.TrimSpace(assistantNIM)

	users, err := s.Store.FetchUsers(ctx)
	if err != nil {
		return fmt.Errorf("fetch users: %w", err)
	}
	var found *catalogModel.UserModel
	for i := range users {
		if users[i].NIM == assistantNIM {
			found = &users[i]
			break
		}
	}
	if found == nil {
		return fmt.Errorf("%w: %s", constants.ErrAssistantNotFound, assistantNIM)
	}
	if !found.IsAssistant() {
		return fmt.Errorf("%w: %s", constants.ErrNotAnAssistant, constants.RoleErrorAssistant(found.Role))
	}

	if err := s.Store.AssignProctor(ctx, transactionCode, assistantNIM); err != nil {
		return err
	}
	s.Log.WithFields(logrus.Fields{
		"transaction_code": transactionCode,
		"assistant_nim":    assistantNIM,
	}).Info("proctor assigned")
	return nil
}

/* =========================
   Catalog reads
========================= */

func (s *AllocationService) Rooms(ctx context.Context) ([]catalogModel.RoomModel, error) {
	return s.Store.FetchRooms(ctx)
}

func (s *AllocationService) Shifts(ctx context.Context) ([]catalogModel.ShiftModel, error) {
	return s.Store.FetchShifts(ctx)
}

func (s *AllocationService) Subjects(ctx context.Context) ([]catalogModel.SubjectModel, error) {
	return s.Store.FetchSubjects(ctx)
}

func (s *AllocationService) Enrollments(ctx context.Context, subjectCode string) ([]catalogModel.EnrollmentModel, error) {
	return s.Store.FetchEnrollments(ctx, strings.TrimSpace(subjectCode))
}

// Assistants returns the users with the Assistant role.
func (s *AllocationService) Assistants(ctx context.Context) ([]catalogModel.UserModel, error) {
	users, err := s.Store.FetchUsers(ctx)
	if err != nil {
		return nil, err
	}
	return catalogModel.OnlyAssistants(users), nil
}

// Users is the user directory: every user narrowed by keyword, role and
// initial generation. An unknown role is a validation error.
func (s *AllocationService) Users(ctx context.Context, c directory.Criteria) ([]catalogModel.UserModel, error) {
	if role := c.Role(); role != "" && !constants.IsRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", constants.ErrValidation, role)
	}
	users, err := s.Store.FetchUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	return directory.Filter(users, c), nil
}
