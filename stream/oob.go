package stream

import (
	"bytes"
	"encoding/xml"
)

// Comment is an out-of-band `<comment>` packet (§6 "Out-of-band XML").
// Recognised Type values include "log:info", "log:warning", "log:error",
// "taskSize", "taskProgress".
type Comment struct {
	XMLName xml.Name `xml:"comment"`
	Type    string   `xml:"type,attr"`
	Source  string   `xml:"source,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

// IsLog reports whether c is one of the "log:*" comment types.
func (c Comment) IsLog() bool {
	return len(c.Type) >= 4 && c.Type[:4] == "log:"
}

// Exception is an out-of-band `<exception>` packet (§6 "Out-of-band XML").
type Exception struct {
	XMLName xml.Name `xml:"exception"`
	Type    string   `xml:"type,attr"`
	Message string   `xml:"message,attr"`
}

func (e Exception) Error() string { return e.Type + ": " + e.Message }

// oobEnvelope is the union type the read loop unmarshals an OOB packet's
// body into: das2 OOB packets are either a bare <comment> or a bare
// <exception> element, distinguished by their outermost tag name, so a
// single xml.Decoder peek at the start element picks which concrete type
// to unmarshal into.
func decodeOOB(body []byte) (comment *Comment, exception *Exception, err error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	tok, err := dec.Token()
	for err == nil {
		if start, ok := tok.(xml.StartElement); ok {
			switch start.Name.Local {
			case "comment":
				var c Comment
				if err := dec.DecodeElement(&c, &start); err != nil {
					return nil, nil, err
				}

				return &c, nil, nil
			case "exception":
				var e Exception
				if err := dec.DecodeElement(&e, &start); err != nil {
					return nil, nil, err
				}

				return nil, &e, nil
			}
		}
		tok, err = dec.Token()
	}

	return nil, nil, err
}
