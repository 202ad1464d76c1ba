package discovery

// DefaultKeywords are the high-converting search phrases the discovery run
// cycles through when the caller does not supply its own list.
var DefaultKeywords = []string{
	"how to text girls",
	"how to cold approach in college",
	"how to cold approach in gym",
	"how to glow up as a guy",
	"how to glow up over the summer",
	"how to be more attractive men",
	"how to be more attractive to women",
	"how to be more social",
	"how to be more masculine",
	"how to be more confident",
	"how to be more charismatic",
	"cold approaching",
	"how to get girls as a short guy",
	"how to get a girl to like u",
	"how to talk to your crush",
	"how to talk to a girl",
	"how to talk to women",
	"how to talk to women in public",
	"first date tips",
	"first date tips for men",
	"how to ask a girl out",
	"body language signs a girl likes you",
	"how to stop being a nice guy",
	"how to stop being shy",
	"how to stop being socially awkward",
	"how to get matches on tinder",
}
