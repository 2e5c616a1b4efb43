// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package httpapi

// uiHTML is a minimal static consumer of the JSON APIs: a thin debug
// view, not a core component. It carries no server-side templating of
// its own.
const uiHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>gitconf-server</title>
</head>
<body>
<h1>gitconf-server</h1>
<p>Query <code>/{env}/{app}/{profile}</code> for Spring-shaped configuration,
<code>/{env}/env</code> for the effective environment map, and
<code>/{env}/assets</code> for raw files.</p>
<div id="app"></div>
<script>
async function loadEnv(env) {
  const res = await fetch(` + "`/${env}/env`" + `);
  if (!res.ok) return;
  const data = await res.json();
  document.getElementById('app').textContent = JSON.stringify(data, null, 2);
}
</script>
</body>
</html>
`
