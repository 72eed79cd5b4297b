// Package pages renders the respondent-facing HTML pages: the exit
// interstitial, status pages, and error pages.
package pages

import (
	"html/template"

	"github.com/gofiber/fiber/v3"
)

var interstitialTmpl = template.Must(template.New("interstitial").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,sans-serif;background:#f5f7fa;margin:0;display:flex;align-items:center;justify-content:center;min-height:100vh}
.card{background:#fff;border-radius:12px;box-shadow:0 2px 12px rgba(0,0,0,.08);padding:48px 40px;max-width:480px;text-align:center}
h1{font-size:22px;color:#1a2233;margin:0 0 16px}
p{color:#5a6475;line-height:1.6;margin:0 0 24px}
.count{font-size:14px;color:#8a93a5}
</style>
</head>
<body>
<div class="card">
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
<p class="count">Redirecting in <span id="n">{{.DelaySeconds}}</span> seconds&hellip;</p>
</div>
<script>
var n={{.DelaySeconds}};
var el=document.getElementById("n");
var t=setInterval(function(){
  n--;
  if(n<=0){clearInterval(t);window.location.replace({{.RedirectURL}});return;}
  el.textContent=n;
},1000);
</script>
</body>
</html>`))

var statusTmpl = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,sans-serif;background:#f5f7fa;margin:0;display:flex;align-items:center;justify-content:center;min-height:100vh}
.card{background:#fff;border-radius:12px;box-shadow:0 2px 12px rgba(0,0,0,.08);padding:48px 40px;max-width:480px;text-align:center}
h1{font-size:22px;color:#1a2233;margin:0 0 16px}
p{color:#5a6475;line-height:1.6;margin:0}
</style>
</head>
<body>
<div class="card">
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
</div>
</body>
</html>`))

var errorTmpl = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,sans-serif;background:#f5f7fa;margin:0;display:flex;align-items:center;justify-content:center;min-height:100vh}
.card{background:#fff;border-radius:12px;box-shadow:0 2px 12px rgba(0,0,0,.08);padding:48px 40px;max-width:520px;text-align:center}
h1{font-size:22px;color:#b03030;margin:0 0 16px}
p{color:#5a6475;line-height:1.6;margin:0 0 8px}
code{background:#f0f2f6;border-radius:4px;padding:2px 6px;font-size:13px;color:#3a4255}
</style>
</head>
<body>
<div class="card">
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
{{if .Detail}}<p><code>{{.Detail}}</code></p>{{end}}
</div>
</body>
</html>`))

// InterstitialData feeds the countdown exit page
type InterstitialData struct {
	Title        string
	Message      string
	RedirectURL  string
	DelaySeconds int
}

// StatusData feeds the static thank-you pages
type StatusData struct {
	Title   string
	Message string
}

// ErrorData feeds the error pages. Detail is operator-facing and only
// populated for configuration errors, never for respondent errors.
type ErrorData struct {
	Title   string
	Message string
	Detail  string
}

// RenderInterstitial writes the countdown exit page
func RenderInterstitial(c fiber.Ctx, status int, data InterstitialData) error {
	return render(c, status, interstitialTmpl, data)
}

// RenderStatus writes a thank-you page
func RenderStatus(c fiber.Ctx, status int, data StatusData) error {
	return render(c, status, statusTmpl, data)
}

// RenderError writes an error page
func RenderError(c fiber.Ctx, status int, data ErrorData) error {
	return render(c, status, errorTmpl, data)
}

func render(c fiber.Ctx, status int, tmpl *template.Template, data any) error {
	c.Status(status)
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return tmpl.Execute(c.Response().BodyWriter(), data)
}
