// internal/browser/cdp/scripts.go
package cdp

import "fmt"

// registryJS installs the node registry on first use. Every element gets a
// key from a monotonically increasing counter the first time it is seen; the
// WeakMap keeps that key stable for the node's lifetime, so wrappers built
// from different snapshots compare equal exactly when they denote one node.
const registryJS = `
window.__uidriver = window.__uidriver || (function() {
	const keys = new WeakMap();
	const nodes = new Map();
	let next = 1;
	return {
		keyOf(n) {
			let k = keys.get(n);
			if (k === undefined) {
				k = next++;
				keys.set(n, k);
				nodes.set(k, new WeakRef(n));
			}
			return k;
		},
		nodeOf(k) {
			const ref = nodes.get(k);
			const n = ref && ref.deref();
			if (!n || !n.isConnected) {
				nodes.delete(k);
				return null;
			}
			return n;
		}
	};
})();
`

// enumerateJS returns one record per element under body, in document order.
const enumerateJS = registryJS + `
(function() {
	const reg = window.__uidriver;
	const skip = new Set(['SCRIPT', 'STYLE', 'NOSCRIPT', 'TEMPLATE', 'META', 'LINK']);
	const host = location.hostname || 'page';

	function kindOf(n) {
		const role = (n.getAttribute('role') || '').toLowerCase();
		const type = (n.getAttribute('type') || '').toLowerCase();
		if (n.tagName === 'INPUT' && (type === 'checkbox' || type === 'radio')) return 'checkable';
		if (role === 'checkbox' || role === 'switch' || role === 'radio') return 'checkable';
		if (n.tagName === 'INPUT' && type === 'date') return 'date_picker';
		if (n.tagName === 'INPUT' && type === 'time') return 'time_picker';
		if (role === 'tablist') return 'tab_bar';
		if (n.tagName === 'UL' || n.tagName === 'OL' || role === 'list' || role === 'listbox') return 'list';
		const style = getComputedStyle(n);
		if ((style.overflowY === 'auto' || style.overflowY === 'scroll') && n.scrollHeight > n.clientHeight) return 'scroll';
		if (n.children.length === 0 && (n.textContent || '').trim() !== '') return 'text';
		return 'generic';
	}

	function textOf(n) {
		if (n.tagName === 'INPUT' || n.tagName === 'TEXTAREA' || n.tagName === 'SELECT') return n.value || '';
		if (n.children.length === 0) return (n.textContent || '').trim();
		let t = '';
		for (const c of n.childNodes) {
			if (c.nodeType === Node.TEXT_NODE) t += c.textContent;
		}
		return t.trim();
	}

	function identifierOf(n) {
		const rid = n.getAttribute('data-resource-id');
		if (rid) return rid;
		if (n.id) return host + ':id/' + n.id;
		return '';
	}

	function checkedOf(n) {
		if ('checked' in n) return !!n.checked;
		return n.getAttribute('aria-checked') === 'true';
	}

	function visibleOf(n, r) {
		if (r.width <= 0 || r.height <= 0) return false;
		const style = getComputedStyle(n);
		if (style.display === 'none' || style.visibility === 'hidden' || style.opacity === '0') return false;
		return r.bottom > 0 && r.right > 0 && r.top < innerHeight && r.left < innerWidth;
	}

	const out = [];
	if (!document.body) return out;
	for (const n of document.body.querySelectorAll('*')) {
		if (skip.has(n.tagName)) continue;
		const r = n.getBoundingClientRect();
		const id = identifierOf(n);
		const children = [];
		for (const c of n.children) {
			if (!skip.has(c.tagName)) children.push(reg.keyOf(c));
		}
		out.push({
			key: reg.keyOf(n),
			identifier: id,
			hasId: id !== '',
			text: textOf(n),
			visible: visibleOf(n, r),
			kind: kindOf(n),
			checked: checkedOf(n),
			x: r.left, y: r.top, width: r.width, height: r.height,
			children: children
		});
	}
	return out;
})()
`

// actionJS clicks the node with the given key and reports whether it still existed.
const actionJS = registryJS + `
(function(k) {
	const n = window.__uidriver.nodeOf(k);
	if (!n) return false;
	n.click();
	return true;
})(%s)
`

// setCheckedJS sets the checked state and fires the events a user toggle would.
const setCheckedJS = registryJS + `
(function(k, v) {
	const n = window.__uidriver.nodeOf(k);
	if (!n) return false;
	if ('checked' in n) {
		if (n.checked !== v) {
			n.checked = v;
			n.dispatchEvent(new Event('input', { bubbles: true }));
			n.dispatchEvent(new Event('change', { bubbles: true }));
		}
	} else {
		n.setAttribute('aria-checked', v ? 'true' : 'false');
	}
	return true;
})(%s, %s)
`

// scrollJS scrolls the page by one page in the given direction and reports
// whether the scroll position moved.
const scrollJS = `
(function(dx, dy) {
	const x = scrollX, y = scrollY;
	scrollBy(dx * innerWidth * 0.9, dy * innerHeight * 0.9);
	return scrollX !== x || scrollY !== y;
})(%d, %d)
`

const screenSizeJS = `({ width: innerWidth, height: innerHeight })`

// jsonEncode encodes a value for safe injection into a script.
func jsonEncode(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `null`
	}
	return string(b)
}

func actionScript(key int64) string {
	return fmt.Sprintf(actionJS, jsonEncode(key))
}

func setCheckedScript(key int64, checked bool) string {
	return fmt.Sprintf(setCheckedJS, jsonEncode(key), jsonEncode(checked))
}

func scrollScript(dx, dy int) string {
	return fmt.Sprintf(scrollJS, dx, dy)
}
