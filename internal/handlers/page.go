package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HomePage serves the single-page generator UI.
func (h *Handler) HomePage(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, homePageHTML)
}

const homePageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Code Generator</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0a0a0a;
    color: #e0e0e0;
    display: flex;
    justify-content: center;
    padding: 32px 16px;
  }
  .card {
    background: #1a1a1a;
    border: 1px solid #333;
    border-radius: 16px;
    padding: 32px;
    max-width: 520px;
    width: 100%;
  }
  h1 { font-size: 20px; font-weight: 600; margin-bottom: 16px; }
  label { display: block; font-size: 13px; color: #888; margin: 12px 0 4px; }
  input[type=text], select {
    width: 100%;
    padding: 8px 10px;
    background: #111;
    border: 1px solid #333;
    border-radius: 8px;
    color: #e0e0e0;
  }
  .pair { display: flex; gap: 8px; align-items: center; }
  .pair input[type=text] { flex: 1; }
  .pair input[type=color] { width: 44px; height: 36px; border: none; background: none; }
  .row { display: flex; gap: 16px; align-items: center; margin-top: 12px; }
  button, a.btn {
    display: inline-block;
    margin-top: 20px;
    padding: 10px 18px;
    border-radius: 8px;
    border: none;
    background: #2563eb;
    color: #fff;
    font-size: 14px;
    cursor: pointer;
    text-decoration: none;
  }
  a.btn { background: #16a34a; }
  .hidden { display: none; }
  #result { margin-top: 24px; text-align: center; }
  #result img { max-width: 100%; background: #fff; border-radius: 8px; }
  #message { margin-top: 12px; font-size: 13px; color: #f87171; min-height: 18px; }
</style>
</head>
<body>
<div class="card">
  <h1>QR &amp; Barcode Generator</h1>

  <label for="text">Text</label>
  <input type="text" id="text" placeholder="Text or URL to encode">

  <div class="row">
    <label><input type="radio" name="type" value="qr" checked> QR code</label>
    <label><input type="radio" name="type" value="barcode"> Barcode</label>
  </div>

  <label>Background</label>
  <div class="pair">
    <input type="text" id="bg-hex" value="#ffffff" maxlength="7">
    <input type="color" id="bg-picker" value="#ffffff">
  </div>

  <label>Foreground</label>
  <div class="pair">
    <input type="text" id="fg-hex" value="#000000" maxlength="7">
    <input type="color" id="fg-picker" value="#000000">
  </div>

  <div class="row">
    <label><input type="checkbox" id="grad-on"> Gradient</label>
  </div>
  <div class="pair hidden" id="grad-pair">
    <input type="text" id="grad-hex" value="#ff0000" maxlength="7">
    <input type="color" id="grad-picker" value="#ff0000">
  </div>

  <div id="icon-row">
    <label for="icon">Center icon (optional)</label>
    <input type="file" id="icon" accept="image/*,.svg">
  </div>

  <div>
    <button id="generate">Generate</button>
    <a class="btn hidden" id="download" href="/api/download">Download</a>
  </div>
  <div id="message"></div>
  <div id="result"></div>
</div>
<script>
(function() {
  var HEX = /^#[0-9a-fA-F]{6}$/;

  // Keep each hex field and its color picker pointing at one value.
  // The hex side only propagates when it is a strict #RRGGBB string.
  function bindPair(hexId, pickerId) {
    var hex = document.getElementById(hexId);
    var picker = document.getElementById(pickerId);
    hex.addEventListener('input', function() {
      if (HEX.test(hex.value)) picker.value = hex.value.toLowerCase();
    });
    picker.addEventListener('input', function() {
      hex.value = picker.value;
    });
  }
  bindPair('bg-hex', 'bg-picker');
  bindPair('fg-hex', 'fg-picker');
  bindPair('grad-hex', 'grad-picker');

  var gradOn = document.getElementById('grad-on');
  var gradPair = document.getElementById('grad-pair');
  gradOn.addEventListener('change', function() {
    gradPair.classList.toggle('hidden', !gradOn.checked);
  });

  var iconRow = document.getElementById('icon-row');
  var radios = document.querySelectorAll('input[name=type]');
  radios.forEach(function(r) {
    r.addEventListener('change', function() {
      iconRow.classList.toggle('hidden', selectedType() !== 'qr');
    });
  });

  function selectedType() {
    return document.querySelector('input[name=type]:checked').value;
  }

  var message = document.getElementById('message');
  var result = document.getElementById('result');
  var download = document.getElementById('download');
  var refreshTimer = null;

  function showPreview(blob) {
    var img = document.createElement('img');
    img.alt = 'Generated code';
    img.src = URL.createObjectURL(blob);
    while (result.firstChild) result.removeChild(result.firstChild);
    result.appendChild(img);
  }

  document.getElementById('generate').addEventListener('click', function() {
    var text = document.getElementById('text').value;
    if (!text.trim()) {
      message.textContent = 'Please enter some text to encode';
      return;
    }
    message.textContent = '';

    var form = new FormData();
    form.append('text', text);
    form.append('type', selectedType());
    form.append('bg', document.getElementById('bg-hex').value);
    form.append('fg', document.getElementById('fg-hex').value);
    if (gradOn.checked) form.append('gradient', document.getElementById('grad-hex').value);

    var iconInput = document.getElementById('icon');
    var hasIcon = selectedType() === 'qr' && iconInput.files.length > 0;
    if (hasIcon) form.append('icon', iconInput.files[0]);

    fetch('/api/generate', { method: 'POST', body: form })
      .then(function(resp) {
        if (!resp.ok) {
          return resp.json().then(function(data) {
            throw new Error(data.error || 'Failed to generate code');
          });
        }
        return resp.blob();
      })
      .then(function(blob) {
        showPreview(blob);
        download.classList.remove('hidden');
        if (refreshTimer) clearTimeout(refreshTimer);
        if (hasIcon) {
          // The icon lands as a late overlay; refresh the preview once
          // it has had a moment to settle.
          refreshTimer = setTimeout(function() {
            fetch('/api/preview')
              .then(function(r) { return r.ok ? r.blob() : null; })
              .then(function(b) { if (b) showPreview(b); });
          }, 400);
        }
      })
      .catch(function(err) {
        message.textContent = err.message;
      });
  });
})();
</script>
</body>
</html>`
