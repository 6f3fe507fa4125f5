// Package propagate carries the debug-session identifier through the call
// graph, including across goroutine hand-off.
//
// The identifier rides on context.Context. Code running inside a marked
// request reads it with FromContext; work submitted to another execution
// unit is wrapped with Wrap so the identifier present at submission time is
// restored inside the task.
package propagate
