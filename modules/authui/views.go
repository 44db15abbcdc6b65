package authui

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/perimetra/console/pkg/oauthflow"
)

// The three flow pages plus the sign-in entry. Deliberately unstyled; the
// console shell owns real layout.

const signinPageHTML = `<!DOCTYPE html>
<html>
<head><title>Sign in to Perimetra</title></head>
<body>
<h1>Sign in to Perimetra</h1>
{{if .Error}}<p role="alert">{{.Error}}</p>{{end}}
<ul>
{{range .Providers}}
<li><a href="{{.LoginURL}}" data-provider="{{.Provider}}"{{if .Popup}} data-popup="true"{{end}}>Continue with {{.Provider}}</a></li>
{{end}}
</ul>
<script>
(function () {
  // Popup providers open the consent screen in a secondary window; the
  // emitter page posts the result back here. Redirect providers keep the
  // plain full-page navigation.
  var links = document.querySelectorAll("a[data-popup]");
  for (var i = 0; i < links.length; i++) {
    links[i].addEventListener("click", function (event) {
      event.preventDefault();
      window.open(event.currentTarget.href, "perimetra-oauth", "popup,width=600,height=700");
    });
  }

  function fail(message) {
    window.location.replace("/signin?message=" + encodeURIComponent(message || "Sign-in failed"));
  }

  window.addEventListener("message", function (event) {
    if (event.origin !== window.location.origin) {
      return;
    }
    var msg = event.data;
    if (!msg || (msg.type !== "oauth-success" && msg.type !== "oauth-error")) {
      return;
    }
    if (msg.type === "oauth-error") {
      fail(msg.error_description || msg.error);
      return;
    }
    fetch("/auth/" + msg.provider + "/complete", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify(msg)
    }).then(function (res) {
      return res.json();
    }).then(function (out) {
      if (out.ok) {
        window.location.replace(out.redirect_url || "/");
      } else {
        fail(out.message);
      }
    }).catch(function () {
      fail("");
    });
  });
})();
</script>
</body>
</html>`

const successPageHTML = `<!DOCTYPE html>
<html>
<head><title>Signed in</title></head>
<body>
<h1>You are signed in</h1>
<p>Taking you to your console&hellip;</p>
<script>
setTimeout(function () {
  window.location.replace({{.HomeURL}});
}, {{.DelayMS}});
</script>
</body>
</html>`

const errorPageHTML = `<!DOCTYPE html>
<html>
<head><title>Sign-in failed</title></head>
<body>
<h1>Sign-in failed</h1>
<p role="alert">{{.Message}}</p>
<form method="POST" action="{{.RestartURL}}">
<button type="submit">Try again</button>
</form>
</body>
</html>`

const popupEmitterHTML = `<!DOCTYPE html>
<html>
<head><title>Completing sign-in</title></head>
<body>
<p>Completing sign-in&hellip;</p>
<script>
(function () {
  var payload = JSON.parse({{.MessageJSON}});
  if (window.opener) {
    window.opener.postMessage(payload, window.location.origin);
  }
  window.close();
})();
</script>
</body>
</html>`

var (
	signinTmpl  = template.Must(template.New("signin").Parse(signinPageHTML))
	successTmpl = template.Must(template.New("success").Parse(successPageHTML))
	errorTmpl   = template.Must(template.New("error").Parse(errorPageHTML))
	popupTmpl   = template.Must(template.New("popup").Parse(popupEmitterHTML))
)

// signinProvider is one sign-in entry. Popup selects the secondary-window
// flow; LoginURL carries the pending workspace when present.
type signinProvider struct {
	Provider oauthflow.Provider
	LoginURL string
	Popup    bool
}

type signinPageData struct {
	Providers []signinProvider
	Error     string
}

type successPageData struct {
	HomeURL string
	DelayMS int64
}

type errorPageData struct {
	Message    string
	RestartURL string
}

type popupPageData struct {
	MessageJSON string
}

func renderHTML(w http.ResponseWriter, status int, tmpl *template.Template, data any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("authui: render %s: %w", tmpl.Name(), err)
	}
	return nil
}
