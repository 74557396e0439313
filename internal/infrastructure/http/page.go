package http

// indexHTML is the single page. Region contents arrive already escaped by
// the HTML renderer and are assigned as markup; everything else is text.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Project Buddy</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 960px; margin: 0 auto; padding: 1rem; background: #f6f7f9; color: #222; }
        header h1 { margin-bottom: 0; }
        .subtitle { color: #666; margin-top: .25rem; }
        section { background: #fff; border-radius: 8px; padding: 1rem; margin: 1rem 0; box-shadow: 0 1px 2px rgba(0,0,0,.08); }
        textarea, input[type=text] { width: 100%; box-sizing: border-box; padding: .5rem; margin-bottom: .5rem; font: inherit; }
        button { padding: .4rem 1rem; margin-right: .5rem; cursor: pointer; }
        .output { margin-top: .75rem; white-space: pre-wrap; }
        .action-item, .message { border-left: 3px solid #4a7dff; padding: .25rem .75rem; margin: .5rem 0; }
        .meta { color: #777; font-size: .85rem; }
        #status { position: sticky; top: 0; padding: .5rem 1rem; border-radius: 6px; display: none; }
        #status.info { display: block; background: #e6f4ea; }
        #status.warning { display: block; background: #fff4e5; }
        #status.alert { display: block; background: #fdecea; }
        .error { color: #b00020; }
    </style>
</head>
<body>
    <header>
        <h1>Project Buddy</h1>
        <p class="subtitle">Track messages, action items and context per project</p>
    </header>
    <div id="status"></div>

    <section>
        <label for="projectInput">Project</label>
        <input type="text" id="projectInput" name="projectInput" placeholder="default" autocomplete="off">
        <button onclick="run('projects')">Projects</button>
        <div id="projectsOutput" class="output"></div>
    </section>

    <section>
        <label for="messageInput">Message</label>
        <textarea id="messageInput" name="messageInput" rows="3" placeholder="Paste a message from the team chat..."></textarea>
        <button onclick="run('submit')">Submit Message</button>
    </section>

    <section>
        <label for="questionInput">Question</label>
        <input type="text" id="questionInput" name="questionInput" placeholder="What is the status of the API?" autocomplete="off">
        <button onclick="run('ask')">Ask</button>
        <div id="answerOutput" class="output"></div>
    </section>

    <section>
        <button onclick="run('actions')">Load Action Items</button>
        <div id="actionsOutput" class="output"></div>
    </section>

    <section>
        <button onclick="run('context')">Load Context</button>
        <div id="contextOutput" class="output"></div>
    </section>

    <script>
        const fields = ['messageInput', 'questionInput', 'projectInput'];

        function run(op) {
            const body = new URLSearchParams();
            fields.forEach(function(id) {
                body.append(id, document.getElementById(id).value);
            });
            fetch('/ui/' + op, { method: 'POST', body: body }).catch(function(err) {
                showStatus('alert', 'Request failed: ' + err);
            });
        }

        function showStatus(level, text) {
            const el = document.getElementById('status');
            el.className = level;
            el.textContent = text;
        }

        function apply(msg) {
            switch (msg.type) {
            case 'state':
                Object.keys(msg.fields || {}).forEach(function(id) {
                    document.getElementById(id).value = msg.fields[id];
                });
                Object.keys(msg.regions || {}).forEach(function(id) {
                    document.getElementById(id).innerHTML = msg.regions[id];
                });
                break;
            case 'field':
                const input = document.getElementById(msg.name);
                if (input && input.value !== msg.value) input.value = msg.value;
                break;
            case 'region':
                const region = document.getElementById(msg.name);
                if (region) region.innerHTML = msg.value;
                break;
            case 'notification':
                showStatus(msg.level, msg.value);
                if (msg.level === 'alert') alert(msg.value);
                break;
            }
        }

        function connect() {
            const scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
            const ws = new WebSocket(scheme + location.host + '/ws');
            ws.onmessage = function(event) {
                apply(JSON.parse(event.data));
            };
            ws.onclose = function() {
                setTimeout(connect, 2000);
            };
        }

        connect();
    </script>
</body>
</html>`
