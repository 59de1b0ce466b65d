package scraper

import "fmt"

// The court site ships no stable ids or classes, so every element lookup is a
// ranked list of structural candidates tried in order: attribute-contains
// matches first, a positional fallback last. The first candidate that both
// matches an element and succeeds in reading/writing it wins; if the whole
// list fails, the field fails.

// pick selects which of the matched elements a candidate uses.
type pick int

const (
	pickFirst pick = iota
	pickLast
)

// candidate is one structural selector strategy for locating an element.
type candidate struct {
	desc string
	sel  string
	pick pick
}

func (c candidate) index() string {
	if c.pick == pickLast {
		return "ns.length - 1"
	}
	return "0"
}

var caseTypeCandidates = []candidate{
	{"select with id containing case_type", `select[id*="case_type"]`, pickFirst},
	{"select with name containing case_type", `select[name*="case_type"]`, pickFirst},
	{"select with class containing case_type", `select[class*="case_type"]`, pickFirst},
	{"first select on page", "select", pickFirst},
}

var caseNumberCandidates = []candidate{
	{"input with id containing case_number", `input[id*="case_number"]`, pickFirst},
	{"input with name containing case_number", `input[name*="case_number"]`, pickFirst},
	{"input with placeholder containing case", `input[placeholder*="case"]`, pickFirst},
	{"first text input on page", `input[type="text"]`, pickFirst},
}

var filingYearCandidates = []candidate{
	{"select with id containing case_year", `select[id*="case_year"]`, pickFirst},
	{"select with name containing year", `select[name*="year"]`, pickFirst},
	{"select with class containing year", `select[class*="year"]`, pickFirst},
	{"last select on page", "select", pickLast},
}

var captchaTextCandidates = []candidate{
	{"span with class containing captcha", `span[class*="captcha"]`, pickFirst},
	{"span with id containing captcha", `span[id*="captcha"]`, pickFirst},
	{"span inside div with class containing captcha", `div[class*="captcha"] span`, pickFirst},
	{"span inside div with id containing captcha", `div[id*="captcha"] span`, pickFirst},
	{"any element with class containing captcha", `[class*="captcha"]`, pickFirst},
	{"any element with id containing captcha", `[id*="captcha"]`, pickFirst},
}

var captchaInputCandidates = []candidate{
	{"input with id containing captcha", `input[id*="captcha"]`, pickFirst},
	{"input with name containing captcha", `input[name*="captcha"]`, pickFirst},
	{"input with placeholder containing captcha", `input[placeholder*="captcha"]`, pickFirst},
	{"last text input on page", `input[type="text"]`, pickLast},
}

// jsCandidate is a strategy expressed as a complete snippet, used where CSS
// alone cannot select the element (text-content matches).
type jsCandidate struct {
	desc string
	js   string
}

var submitCandidates = []jsCandidate{
	{"button with Submit text", clickByTextJS("button", "Submit")},
	{"input of type submit", clickBySelectorJS(`input[type="submit"]`)},
	{"button of type submit", clickBySelectorJS(`button[type="submit"]`)},
	{"button with class containing submit", clickBySelectorJS(`button[class*="submit"]`)},
	{"input with value containing Submit", clickBySelectorJS(`input[value*="Submit"]`)},
}

var ordersLinkCandidates = []jsCandidate{
	{"anchor with Orders text", clickByTextJS("a", "Orders")},
	{"anchor with Order text", clickByTextJS("a", "Order")},
	{"anchor with href containing order", clickBySelectorJS(`a[href*="order"]`)},
}

// clickBySelectorJS scrolls the first match into view and dispatches a
// programmatic click, bypassing native interactability checks.
func clickBySelectorJS(sel string) string {
	return fmt.Sprintf(`(() => {
		const ns = document.querySelectorAll(%q);
		if (!ns.length) return false;
		const el = ns[0];
		el.scrollIntoView(true);
		el.click();
		return true;
	})()`, sel)
}

// clickByTextJS clicks the first element of the given tag whose text contains
// the needle.
func clickByTextJS(tag, needle string) string {
	return fmt.Sprintf(`(() => {
		const ns = document.querySelectorAll(%q);
		for (const el of ns) {
			if ((el.textContent || '').includes(%q)) {
				el.scrollIntoView(true);
				el.click();
				return true;
			}
		}
		return false;
	})()`, tag, needle)
}

// selectOptionJS picks the option whose visible text or value matches,
// dispatching a change event so the page's own handlers fire.
func selectOptionJS(c candidate, value string) string {
	return fmt.Sprintf(`(() => {
		const ns = document.querySelectorAll(%q);
		if (!ns.length) return false;
		const el = ns[%s];
		if (el.tagName !== 'SELECT') return false;
		for (const opt of el.options) {
			if (opt.text.trim().toUpperCase() === %q.toUpperCase() || opt.value === %q) {
				el.value = opt.value;
				el.dispatchEvent(new Event('change', {bubbles: true}));
				return true;
			}
		}
		return false;
	})()`, c.sel, c.index(), value, value)
}

// fillInputJS clears the input before writing to drop placeholder or stale
// content, then dispatches input and change events.
func fillInputJS(c candidate, value string) string {
	return fmt.Sprintf(`(() => {
		const ns = document.querySelectorAll(%q);
		if (!ns.length) return false;
		const el = ns[%s];
		el.value = '';
		el.value = %q;
		el.dispatchEvent(new Event('input', {bubbles: true}));
		el.dispatchEvent(new Event('change', {bubbles: true}));
		return true;
	})()`, c.sel, c.index(), value)
}

// collectTextsJS returns the trimmed text content of every match.
func collectTextsJS(sel string) string {
	return fmt.Sprintf(
		`Array.from(document.querySelectorAll(%q)).map(el => (el.textContent || '').trim())`,
		sel,
	)
}
