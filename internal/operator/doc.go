// Package operator provides the text operators applied to a visual
// selection: delete, change and yank.
//
// An Operator receives an end-exclusive range. Endpoints may arrive in
// either order; operators normalize them before touching the buffer.
//
// Operators may additionally implement:
//
//   - Transitioner, to name the mode the editor enters after the operator
//     runs (normal when not implemented)
//   - Lander, to report where the cursor goes after the operator ran
//
// Registers:
//
// Delete and Change store the removed text in the unnamed register and
// the numbered delete history. Yank stores in the unnamed register and
// register 0, and can mirror the text to the system clipboard.
package operator
