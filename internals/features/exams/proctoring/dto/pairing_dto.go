package dto

import (
	"github.com/google/uuid"

	"examku_backend/internals/features/exams/proctoring/pairing"
	trxDTO "examku_backend/internals/features/exams/transactions/dto"
)

/* =========================================================
   REQUEST
   ========================================================= */

type SelectTransactionRequest struct {
	TransactionCode string `json:"transaction_code" validate:"required,max=32"`
}

type SelectAssistantRequest struct {
	AssistantNIM string `json:"assistant_nim" validate:"required,max=64"`
}

/* =========================================================
   RESPONSE
   ========================================================= */

type Candidates struct {
	TransactionCode string `json:"transaction_code"`
	AssistantNIM    string `json:"assistant_nim"`
}

type AssistantOption struct {
	NIM     string  `json:"nim"`
	Name    string  `json:"name"`
	Initial *string `json:"initial,omitempty"`
}

type SessionView struct {
	SessionID    uuid.UUID                        `json:"session_id"`
	State        pairing.State                    `json:"state"`
	Pairs        []pairing.PendingPair            `json:"pairs"`
	Candidates   Candidates                       `json:"candidates"`
	CanAddPair   bool                             `json:"can_add_pair"`
	Transactions []trxDTO.ExamTransactionResponse `json:"transactions"`
	Assistants   []AssistantOption                `json:"assistants"`
}

// NewSessionView snapshots the builder; call it while holding the session lock.
func NewSessionView(id uuid.UUID, b *pairing.Builder, transactionQuery, assistantQuery string, subjectNames map[string]string) SessionView {
	trxCode, nim := b.Candidates()

	assistants := b.SelectableAssistants(assistantQuery)
	options := make([]AssistantOption, 0, len(assistants))
	for _, a := range assistants {
		options = append(options, AssistantOption{NIM: a.NIM, Name: a.Name, Initial: a.Initial})
	}

	pairs := b.Pairs()
	if pairs == nil {
		pairs = []pairing.PendingPair{}
	}

	return SessionView{
		SessionID:    id,
		State:        b.State(),
		Pairs:        pairs,
		Candidates:   Candidates{TransactionCode: trxCode, AssistantNIM: nim},
		CanAddPair:   b.CanAddPair(),
		Transactions: trxDTO.FromModels(b.SelectableTransactions(transactionQuery), subjectNames),
		Assistants:   options,
	}
}

type FailedPair struct {
	TransactionCode string `json:"transaction_code"`
	AssistantNIM    string `json:"assistant_nim"`
	Reason          string `json:"reason"`
}

type SubmitResponse struct {
	Succeeded []pairing.PendingPair `json:"succeeded"`
	Failed    []FailedPair          `json:"failed"`
	Session   SessionView           `json:"session"`
}

func NewSubmitResponse(res pairing.SubmitResult, view SessionView) SubmitResponse {
	succeeded := res.Succeeded
	if succeeded == nil {
		succeeded = []pairing.PendingPair{}
	}
	failed := make([]FailedPair, 0, len(res.Failed))
	for _, f := range res.Failed {
		failed = append(failed, FailedPair{
			TransactionCode: f.Pair.TransactionCode,
			AssistantNIM:    f.Pair.AssistantNIM,
			Reason:          f.Reason,
		})
	}
	return SubmitResponse{Succeeded: succeeded, Failed: failed, Session: view}
}
