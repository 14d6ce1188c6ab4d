package app

import (
	"encoding/json"
	"math/rand/v2"
)

// ProblemPool supplies the next problem when a turn switches.
type ProblemPool interface {
	Next() json.RawMessage
}

// StaticPool picks uniformly from a fixed list.
type StaticPool struct {
	problems []json.RawMessage
	pick     func(n int) int
}

// NewStaticPool uses DefaultProblems when problems is empty.
func NewStaticPool(problems []json.RawMessage) *StaticPool {
	if len(problems) == 0 {
		problems = DefaultProblems()
	}
	return &StaticPool{problems: problems, pick: rand.IntN}
}

func (p *StaticPool) Next() json.RawMessage {
	return p.problems[p.pick(len(p.problems))]
}

func (p *StaticPool) Len() int { return len(p.problems) }

var defaultProblems = []string{
	`{"id":1,"title":"Reverse String","difficulty":"Easy",` +
		`"description":"Write a function that reverses a string.",` +
		`"examples":[{"input":"\"hello\"","output":"\"olleh\""}],` +
		`"testCases":[{"input":"\"hello\"","expected":"\"olleh\""}],` +
		`"starterCode":{"python":"def reverse_string(s):\n    # Your code here\n    pass",` +
		`"javascript":"function reverseString(s) {\n    // Your code here\n}",` +
		`"java":"public String reverseString(String s) {\n    // Your code here\n    return \"\";\n}"}}`,
	`{"id":2,"title":"Two Sum","difficulty":"Easy",` +
		`"description":"Return indices of the two numbers that add up to target.",` +
		`"examples":[{"input":"[2,7,11,15], 9","output":"[0,1]"}],` +
		`"testCases":[{"input":"[2,7,11,15], 9","expected":"[0,1]"}]}`,
	`{"id":3,"title":"Valid Parentheses","difficulty":"Easy",` +
		`"description":"Determine if the bracket string is valid.",` +
		`"examples":[{"input":"\"()[]{}\"","output":"true"}],` +
		`"testCases":[{"input":"\"(]\"","expected":"false"}]}`,
}

func DefaultProblems() []json.RawMessage {
	out := make([]json.RawMessage, len(defaultProblems))
	for i, p := range defaultProblems {
		out[i] = json.RawMessage(p)
	}
	return out
}
