// Package translate provides the translation backend adapter.
//
// A Backend exposes exactly one Translate operation. Two variants exist:
// the LibreTranslate-compatible HTTP client and the offline backend that
// loads locally installed model packages. A fallback wrapper combines the
// two so an offline request whose language pair has no installed model is
// served by the API endpoint instead, observably and one-directionally.
//
// All failures surface as *BackendError values tagged with a kind
// (network, http-status, decode, model-missing) so callers can apply
// their failure policy without inspecting transport details.
package translate
