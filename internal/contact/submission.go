package contact

// Field limits, counted in Unicode code points after trimming.
const (
	NameMinLength    = 2
	NameMaxLength    = 100
	EmailMaxLength   = 100
	SubjectMinLength = 5
	SubjectMaxLength = 200
	MessageMinLength = 10
	MessageMaxLength = 2000
)

// Submission is a contact form payload as entered by the visitor.
type Submission struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,contactemail,max=100"`
	Subject string `json:"subject" validate:"required,min=5,max=200"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}
