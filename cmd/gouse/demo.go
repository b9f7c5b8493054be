package main

import "net/http"

// demoPage serves the single-page demo client. It opens the websocket,
// forwards raw browser events (the server does all debouncing and
// throttling) and polls /api/state to show what the hooks see.
func demoPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(demoHTML))
}

const demoHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>gouse demo</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 2rem; max-width: 40rem; }
  body.dark { background: #111; color: #eee; }
  input { width: 100%; padding: .5rem; font-size: 1rem; }
  pre { background: rgba(127,127,127,.15); padding: 1rem; overflow: auto; }
  button { margin-right: .5rem; }
</style>
</head>
<body>
<h1>gouse demo</h1>

<p>Type to search (debounced server-side, 300ms):</p>
<input id="search" placeholder="try: deb, sig, time...">
<pre id="results"></pre>

<p>
  <button id="dark">Toggle dark mode</button>
  <button id="copy">Copy greeting to clipboard</button>
</p>

<p>Server-side hook state (mouse is throttled in the server log):</p>
<pre id="state"></pre>

<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
const send = (type, data) => {
  if (ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify({type, data}));
};

ws.onmessage = (e) => {
  const f = JSON.parse(e.data);
  if (f.type === "clipboard-write") {
    navigator.clipboard && navigator.clipboard.writeText(f.data.text);
    send("clipboard", {text: f.data.text});
  }
};

document.addEventListener("mousemove", (e) => {
  send("mousemove", {x: e.clientX, y: e.clientY, buttons: e.buttons});
});
window.addEventListener("resize", () => {
  send("resize", {width: window.innerWidth, height: window.innerHeight});
});
document.addEventListener("visibilitychange", () => {
  send("visibility", {visible: document.visibilityState === "visible"});
});
ws.onopen = () => {
  send("resize", {width: window.innerWidth, height: window.innerHeight});
};

const search = document.getElementById("search");
search.addEventListener("input", async () => {
  const res = await fetch("/api/search?q=" + encodeURIComponent(search.value));
  const body = await res.json();
  document.getElementById("results").textContent = JSON.stringify(body, null, 2);
});

document.getElementById("dark").addEventListener("click", async () => {
  const isDark = document.body.classList.toggle("dark");
  await fetch("/api/colormode", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({mode: isDark ? "dark" : "light"}),
  });
});

document.getElementById("copy").addEventListener("click", () => {
  send("clipboard", {text: "hello from gouse"});
});

setInterval(async () => {
  const res = await fetch("/api/state");
  document.getElementById("state").textContent = JSON.stringify(await res.json(), null, 2);
}, 1000);
</script>
</body>
</html>
`
