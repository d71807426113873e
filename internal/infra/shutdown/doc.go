// Package shutdown coordinates graceful process termination.
//
// Components register hooks with OnShutdown as they start; Wait blocks
// until SIGINT, SIGTERM or Trigger and then runs the hooks in reverse
// registration order under a shared deadline.
package shutdown
