package activity

import (
	"html/template"
	"strings"
)

// emailTemplate is the fixed outbound document. The generated body is plain
// text; `white-space: pre-line` preserves its paragraph breaks without
// needing HTML markup inside the content block.
var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Subject}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f4f4f4;
        }
        .email-container {
            background-color: #ffffff;
            padding: 30px;
            border-radius: 10px;
            box-shadow: 0 2px 10px rgba(0,0,0,0.1);
        }
        .header {
            text-align: center;
            border-bottom: 2px solid #007bff;
            padding-bottom: 20px;
            margin-bottom: 30px;
        }
        .content {
            margin-bottom: 30px;
            white-space: pre-line;
        }
        .footer {
            text-align: center;
            font-size: 12px;
            color: #666;
            border-top: 1px solid #eee;
            padding-top: 20px;
            margin-top: 30px;
        }
    </style>
</head>
<body>
    <div class="email-container">
        <div class="header">
            <h1>{{.Subject}}</h1>
        </div>
        <div class="content">{{.Content}}</div>
        <div class="footer">
            <p>{{.FooterText}}</p>
            <p>Este mensaje fue enviado a {{.FirstName}}.</p>
        </div>
    </div>
</body>
</html>
`))

const footerText = "Gracias por confiar en nosotros"

type emailData struct {
	Subject    string
	Content    string
	FirstName  string
	FooterText string
}

// renderEmail interpolates subject, body and recipient name into the fixed
// document.
func renderEmail(subject, content, firstName string) (string, error) {
	var sb strings.Builder
	err := emailTemplate.Execute(&sb, emailData{
		Subject:    subject,
		Content:    content,
		FirstName:  firstName,
		FooterText: footerText,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
