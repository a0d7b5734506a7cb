package mailer

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*
var templateFS embed.FS

var (
	contactHTML = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/contact.html"))
	contactText = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/contact.txt"))
)

type contactData struct {
	Name       string
	Email      string
	Subject    string
	Message    string
	ReceivedAt string
}

func renderContact(data contactData) (string, string, error) {
	var html bytes.Buffer
	if err := contactHTML.Execute(&html, data); err != nil {
		return "", "", fmt.Errorf("%w: html: %v", ErrRenderFailed, err)
	}

	var text bytes.Buffer
	if err := contactText.Execute(&text, data); err != nil {
		return "", "", fmt.Errorf("%w: text: %v", ErrRenderFailed, err)
	}

	return html.String(), text.String(), nil
}
