package sport

// Canonical sport labels produced by the classifier.
const (
	NCAABasketball = "NCAA Basketball"
	NCAAFootball   = "NCAA Football"
	NCAAHockey     = "NCAA Hockey"
	NCAABaseball   = "NCAA Baseball"
	NBA            = "NBA"
	NFL            = "NFL"
	NHL            = "NHL"
	MLB            = "MLB"
	Basketball     = "Basketball"
	IceHockey      = "Ice Hockey"
	Baseball       = "Baseball"
	AFL            = "AFL"
	Rugby          = "Rugby"
	Soccer         = "Soccer"
	Boxing         = "Boxing"
	UFC            = "UFC"
	F1             = "F1"
	Tennis         = "Tennis"
	Cricket        = "Cricket"
	Golf           = "Golf"
	Darts          = "Darts"
	Snooker        = "Snooker"
	Other          = "Other"
)

// Input is the raw classification material from one feed record.
type Input struct {
	Category   string
	Title      string
	Tournament string
}

// Label is the classifier output. Both fields are always set.
type Label struct {
	Sport  string
	League string
}
