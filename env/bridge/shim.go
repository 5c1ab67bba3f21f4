/*
 * Copyright 2024 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package bridge

const shimPathPlaceholder = "{{path}}"

// shimScript connects the page to the server and relays events and commands.
const shimScript = `(function () {
  var script = document.currentScript;
  var endpoint = (script && script.getAttribute('data-endpoint')) ||
    ((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '{{path}}');
  var hasHistory = !!(window.history && window.history.pushState);
  var ws = new WebSocket(endpoint);
  function send(frame) {
    if (ws.readyState === 1) {
      ws.send(JSON.stringify(frame));
    }
  }
  ws.onopen = function () {
    send({type: 'hello', href: location.href, history: hasHistory});
  };
  window.addEventListener('popstate', function (e) {
    send({type: 'popstate', href: location.href, state: e.state});
  });
  window.addEventListener('hashchange', function () {
    send({type: 'hashchange', href: location.href});
  });
  ws.onmessage = function (e) {
    var f = JSON.parse(e.data);
    switch (f.type) {
      case 'pushState':
        window.history.pushState(f.state || null, '', f.url);
        break;
      case 'replaceState':
        window.history.replaceState(f.state || null, '', f.url);
        break;
      case 'assignHash':
        location.hash = f.hash;
        break;
      case 'replaceLocation':
        location.replace(f.url);
        break;
    }
  };
})();
`
