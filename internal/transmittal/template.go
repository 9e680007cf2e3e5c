package transmittal

import "github.com/valyala/fasttemplate"

// The text below is consumed by downstream mail handling; keep it byte-exact.
const (
	subjectText = "\nPepper Pay ACH File {{fileName}}"

	bodyText = "\n" +
		"    Hello,\n" +
		"    Please see below the transmittal information\n" +
		"\n" +
		"    Transmittal ACH File: {{fileName}}\n" +
		"\n" +
		"    Entry/Addenda #: {{entryCount}}\n" +
		"\n" +
		"    $ Debits: ${{debits}}\n" +
		"\n" +
		"    $ Credits: ${{credits}}\n" +
		"\n" +
		"    $ Transmission amount: ${{net}}\n" +
		"\n" +
		"    Thank you,\n" +
		"    Pepper Pay Finance Department\n" +
		"    "
)

var (
	subjectTemplate = fasttemplate.New(subjectText, "{{", "}}")
	bodyTemplate    = fasttemplate.New(bodyText, "{{", "}}")
)
