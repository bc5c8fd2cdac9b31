package domain

import "errors"

var (
	ErrSendingReplyFailed = errors.New("failed to send reply")
	ErrEmptyPrompt        = errors.New("empty prompt")
	ErrStreamClosed       = errors.New("line stream closed")
)

// InternalErrorReply is sent to the triggering user when a handler fails.
const InternalErrorReply = "An error occured when processing the command."
