package web

import "net/http"

// Handler serves a minimal single-page UI for signing the guestbook and
// browsing the public visitor list.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexHTML))
	})
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>guestbook</title>
  <style>
    :root { --bg:#0f172a; --text:#e5e7eb; --muted:#9ca3af; --accent:#06b6d4; --danger:#ef4444; }
    * { box-sizing: border-box; }
    body { margin:0; font-family: "Segoe UI", sans-serif; background: var(--bg); color: var(--text); }
    header { padding: 20px; border-bottom: 1px solid #1f2937; }
    h1 { margin:0; font-size: 20px; }
    main { padding: 20px; display: grid; gap: 20px; grid-template-columns: repeat(auto-fit, minmax(320px, 1fr)); }
    .card { background: #0d1628; border: 1px solid #1f2937; border-radius: 12px; padding: 16px; }
    .card h2 { margin: 0 0 10px 0; font-size: 16px; }
    label { display:block; margin: 10px 0 4px; color: var(--muted); font-size: 13px; }
    input { width:100%; padding:10px; border-radius:8px; border:1px solid #1f2937; background:#0b1220; color: var(--text); }
    button { margin-top:12px; padding:10px 12px; border-radius:8px; border:none; cursor:pointer; color:#0b1220; font-weight:600; background: var(--accent); }
    .muted { color: var(--muted); font-size:12px; }
    .item { padding:10px; border:1px solid #1f2937; border-radius:8px; margin-bottom:8px; }
    .item strong { color: var(--accent); }
    .error { color: var(--danger); font-size: 12px; margin-top: 6px; }
  </style>
</head>
<body>
  <header>
    <h1>guestbook</h1>
    <div class="muted">Sign below. Only nick and group are shown publicly.</div>
  </header>

  <main>
    <section class="card">
      <h2>Sign</h2>
      <label>Nick</label>
      <input id="nick" placeholder="your nick" />
      <label>Group (optional)</label>
      <input id="group" placeholder="" />
      <label>Email (optional, never shown)</label>
      <input id="email" placeholder="" />
      <label>Anything else (optional, never shown)</label>
      <input id="extra" placeholder="" />
      <button id="sign">Sign</button>
      <div class="error" id="sign-error"></div>
    </section>

    <section class="card">
      <h2>Visitors</h2>
      <div id="visitors"><span class="muted">loading...</span></div>
    </section>
  </main>

  <script>
    async function refresh() {
      const box = document.getElementById('visitors');
      try {
        const res = await fetch('/visitors');
        const list = await res.json();
        if (list.length === 0) {
          box.innerHTML = '<span class="muted">nobody yet</span>';
          return;
        }
        box.innerHTML = list.map(v =>
          '<div class="item"><strong>' + esc(v.nick) + '</strong>' +
          (v.group ? ' <span class="muted">(' + esc(v.group) + ')</span>' : '') +
          '</div>').join('');
      } catch (e) {
        box.innerHTML = '<span class="error">failed to load visitors</span>';
      }
    }

    function esc(s) {
      const d = document.createElement('div');
      d.textContent = s;
      return d.innerHTML;
    }

    function field(id) {
      const v = document.getElementById(id).value.trim();
      return v === '' ? null : v;
    }

    document.getElementById('sign').addEventListener('click', async () => {
      const err = document.getElementById('sign-error');
      err.textContent = '';
      const res = await fetch('/register', {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify({
          nick: document.getElementById('nick').value.trim(),
          group: field('group'),
          email: field('email'),
          extra: field('extra'),
        }),
      });
      if (!res.ok) {
        const body = await res.json().catch(() => ({ error: 'request failed' }));
        err.textContent = body.error || 'request failed';
        return;
      }
      document.getElementById('nick').value = '';
      refresh();
    });

    refresh();
  </script>
</body>
</html>
`
