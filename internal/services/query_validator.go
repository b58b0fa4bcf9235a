package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/showgraph/showgraph-backend/internal/data/graph"
)

// CandidateQuery is an untrusted structured query as produced by the
// translator: Cypher text, its declared parameter bindings, and a
// human-readable explanation.
type CandidateQuery struct {
	Query       string
	Params      map[string]any
	Explanation string
}

// AcceptedQuery is a candidate that passed validation, with the result
// cardinality bound the executor must honor.
type AcceptedQuery struct {
	Query          string
	Params         map[string]any
	EffectiveLimit int
}

// Tokens with mutating intent. CALL is included because procedures can write.
// This scan is a syntactic safety net; the authoritative enforcement is the
// read-only session the executor opens against the store.
var deniedTokens = map[string]bool{
	"create":  true,
	"merge":   true,
	"delete":  true,
	"detach":  true,
	"set":     true,
	"remove":  true,
	"drop":    true,
	"call":    true,
	"load":    true,
	"foreach": true,
}

var (
	wordRe       = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	limitRe      = regexp.MustCompile(`(?i)\blimit\s+(\d+)`)
	limitTokenRe = regexp.MustCompile(`(?i)\blimit\b`)
)

// QueryValidator statically inspects candidate queries before execution.
type QueryValidator struct {
	defaultLimit int
	maxLimit     int
}

func NewQueryValidator(defaultLimit, maxLimit int) *QueryValidator {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &QueryValidator{defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Validate rejects queries carrying any denylisted token, case-insensitively,
// as a whole word. A missing LIMIT clause is not a rejection: the default cap
// is appended instead, keeping the contract permissive for well-formed
// read-only queries. An explicit LIMIT above the hard cap is clamped at
// materialization time via EffectiveLimit.
func (v *QueryValidator) Validate(candidate CandidateQuery) (AcceptedQuery, error) {
	text := strings.TrimSpace(candidate.Query)
	text = strings.TrimSpace(strings.TrimRight(text, ";"))
	if text == "" {
		return AcceptedQuery{}, unsafeErr("empty query")
	}

	for _, token := range wordRe.FindAllString(text, -1) {
		if deniedTokens[strings.ToLower(token)] {
			return AcceptedQuery{}, unsafeErr("mutating keyword not allowed: " + strings.ToUpper(token))
		}
	}

	// The last LIMIT clause is the one governing result cardinality; earlier
	// ones bound intermediate WITH stages and must not shrink the rows the
	// executor materializes.
	effective := v.defaultLimit
	tokenLocs := limitTokenRe.FindAllStringIndex(text, -1)
	literalLocs := limitRe.FindAllStringSubmatchIndex(text, -1)
	switch {
	case len(tokenLocs) == 0:
		text = text + fmt.Sprintf("\nLIMIT %d", v.defaultLimit)
	case len(literalLocs) == 0 || literalLocs[len(literalLocs)-1][0] != tokenLocs[len(tokenLocs)-1][0]:
		// The final LIMIT is $param or similar: appending a second LIMIT would
		// corrupt the query, and an unverifiable bound is not an acceptable
		// bound.
		return AcceptedQuery{}, unsafeErr("LIMIT clause without a literal bound")
	default:
		loc := literalLocs[len(literalLocs)-1]
		n, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil || n <= 0 {
			return AcceptedQuery{}, unsafeErr("malformed LIMIT clause")
		}
		effective = n
		if n > v.maxLimit {
			effective = v.maxLimit
		}
	}

	params := candidate.Params
	if params == nil {
		params = map[string]any{}
	}
	return AcceptedQuery{Query: text, Params: params, EffectiveLimit: effective}, nil
}

func unsafeErr(reason string) error {
	return &graph.OperationError{
		Code:      graph.OperationErrorUnsafeQuery,
		Operation: "ValidateQuery",
		Message:   reason,
	}
}
