// Package protocol implements the line-oriented console protocol.
package protocol

// Commands are single lines terminated by a carriage return:
//
//	KEY=value    assign an identity field (silent no-op when locked,
//	             unknown, or the value has non-printable bytes)
//	KEY?         query an identity field
//	SERIAL?      query the board's unique ID
//	CHECK?       verify the stored checksum: OK or ERR
//	EDGECOUNT?   query the qualified pulse count
//	CLEAR        zero the identity record
//	RESETCOUNT   zero the pulse counter
//
// Replies are the value followed by a newline. The protocol has no
// error channel: malformed or rejected input is ignored.
