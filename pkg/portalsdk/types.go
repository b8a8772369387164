package portalsdk

import "time"

// ErrorResponse is the uniform error body every endpoint returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	MFAEnabled bool      `json:"mfa_enabled"`
	CreatedAt  time.Time `json:"created_at"`
}

// --- MFA ---

type TOTPEnrollResponse struct {
	Secret  string `json:"secret"`
	URL     string `json:"url"`
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
}

type TOTPCodeRequest struct {
	Code string `json:"code"`
}

// --- Templates ---

type ContractTemplateResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type QuestionnaireCreateRequest struct {
	Name      string   `json:"name"`
	Questions []string `json:"questions"`
}

type QuestionResponse struct {
	ID           string `json:"id"`
	QuestionText string `json:"question_text"`
	OrderIndex   int    `json:"order_index"`
}

type QuestionnaireResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Questions []QuestionResponse `json:"questions,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// --- Profile ---

type ProfileUpdateRequest struct {
	FirmName     string `json:"firm_name"`
	CalendarLink string `json:"calendar_link"`
}

type ProfileResponse struct {
	FirmName     string `json:"firm_name"`
	CalendarLink string `json:"calendar_link"`
	HasLogo      bool   `json:"has_logo"`
}

// --- Clients (case files) ---

type ClientCreateRequest struct {
	ClientName              string   `json:"client_name"`
	CaseName                string   `json:"case_name"`
	ContractTemplateID      string   `json:"contract_template_id"`
	QuestionnaireTemplateID string   `json:"questionnaire_template_id"`
	RequiredDocuments       []string `json:"required_documents"`
}

type ClientResponse struct {
	ID                string     `json:"id"`
	ClientName        string     `json:"client_name"`
	CaseName          string     `json:"case_name"`
	Status            string     `json:"status"`
	MagicLink         string     `json:"magic_link"`
	LinkUsed          bool       `json:"link_used"`
	RequiredDocuments []string   `json:"required_documents"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

type SignatureResponse struct {
	Timestamp string `json:"timestamp"`
	IP        string `json:"ip"`
	Hash      string `json:"hash"`
}

type AnswerResponse struct {
	QuestionID   string    `json:"question_id"`
	QuestionText string    `json:"question_text"`
	OrderIndex   int       `json:"order_index"`
	AnswerText   string    `json:"answer_text"`
	CreatedAt    time.Time `json:"created_at"`
}

type DocumentResponse struct {
	ID           string    `json:"id"`
	DocumentType string    `json:"document_type"`
	FileName     string    `json:"file_name"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// ExpedienteResponse is the firm-side dossier view of one case file.
type ExpedienteResponse struct {
	Client            ClientResponse     `json:"client"`
	Step              string             `json:"step"`
	Signature         *SignatureResponse `json:"signature,omitempty"`
	Answers           []AnswerResponse   `json:"answers"`
	Documents         []DocumentResponse `json:"documents"`
	TotalQuestions    int                `json:"total_questions"`
	AnsweredQuestions int                `json:"answered_questions"`
	MissingDocuments  []string           `json:"missing_documents"`
}

// --- Portal ---

// PortalStateResponse is the client-facing bundle rendered by the portal.
// It never includes the firm user's identity or other case files.
type PortalStateResponse struct {
	Step       string `json:"step"`
	ClientName string `json:"client_name"`
	CaseName   string `json:"case_name"`

	FirmName     string `json:"firm_name,omitempty"`
	CalendarLink string `json:"calendar_link,omitempty"`
	ContractName string `json:"contract_name,omitempty"`
	Signed       bool   `json:"signed"`

	Questions         []QuestionResponse `json:"questions"`
	Answers           []AnswerResponse   `json:"answers"`
	Documents         []DocumentResponse `json:"documents"`
	RequiredDocuments []string           `json:"required_documents"`
	MissingDocuments  []string           `json:"missing_documents"`
	AnsweredQuestions int                `json:"answered_questions"`
}

type SignContractRequest struct {
	SignatureData string `json:"signature_data"`
}

type AnswerSubmission struct {
	QuestionID string `json:"question_id"`
	AnswerText string `json:"answer_text"`
}

type SubmitAnswersRequest struct {
	Answers []AnswerSubmission `json:"answers"`
}

// --- Payments ---

type CreateOrderRequest struct {
	Amount string `json:"amount,omitempty"`
}

type OrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

type CaptureOrderRequest struct {
	OrderID string `json:"order_id"`
}

// --- Feed ---

// FeedEvent is one message on the dashboard websocket feed.
type FeedEvent struct {
	Type     string    `json:"type"`
	ClientID string    `json:"client_id"`
	At       time.Time `json:"at"`
}

// --- Health ---

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}
