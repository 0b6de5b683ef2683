package notify

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	"strconv"
	texttemplate "text/template"
	"time"

	"authify/backend/internal/otp"
)

//go:embed templates
var templateFS embed.FS

var (
	welcomeTmpl = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/welcome.html"))
	resetTmpl   = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/password-reset-otp.html"))
	verifyTmpl  = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/verify-otp.txt"))
)

// Subjects.
const (
	SubjectWelcome      = "Welcome to Authify 🎉"
	SubjectReset        = "Your OTP for Password Reset"
	SubjectVerification = "OTP for Authentication"
)

type welcomeData struct {
	Name string
}

type codeData struct {
	Code     string
	Validity string
}

// Message is a rendered mail ready for a transport.
type Message struct {
	To      string
	Subject string
	Body    string
	HTML    bool
}

func renderWelcome(to, name string) (*Message, error) {
	var buf bytes.Buffer
	if err := welcomeTmpl.Execute(&buf, welcomeData{Name: name}); err != nil {
		return nil, err
	}
	return &Message{To: to, Subject: SubjectWelcome, Body: buf.String(), HTML: true}, nil
}

func renderReset(to, code string) (*Message, error) {
	var buf bytes.Buffer
	if err := resetTmpl.Execute(&buf, codeData{Code: code, Validity: validity(otp.ResetTTL)}); err != nil {
		return nil, err
	}
	return &Message{To: to, Subject: SubjectReset, Body: buf.String(), HTML: true}, nil
}

func renderVerification(to, code string) (*Message, error) {
	var buf bytes.Buffer
	if err := verifyTmpl.Execute(&buf, codeData{Code: code, Validity: validity(otp.VerificationTTL)}); err != nil {
		return nil, err
	}
	return &Message{To: to, Subject: SubjectVerification, Body: buf.String()}, nil
}

// validity renders a TTL the way the mails phrase it: "5 minutes", "24 hours".
func validity(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return plural(int(d/time.Hour), "hour")
	}
	return plural(int(d/time.Minute), "minute")
}

func plural(n int, unit string) string {
	s := strconv.Itoa(n) + " " + unit
	if n != 1 {
		s += "s"
	}
	return s
}
