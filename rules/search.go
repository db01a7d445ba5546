package rules

// searchKeys returns the keys the query selects, in key order.
//
// Non-strict search treats the query as literal text and keeps every key
// containing it, ignoring case: "gas" selects "Gas Station", never the other
// way round. Strict search keeps keys equal to the query, ignoring case.
func searchKeys(query Token, keys []Token, strict bool, diag Diagnostics) []Token {
	var matches []Token
	for _, key := range keys {
		if query.matches(key, strict) {
			matches = append(matches, key)
		}
	}
	if len(matches) > 1 {
		diag.Debugf("%q matches %d keys: %s", query, len(matches), quoteTokens(matches))
	}
	return matches
}
