package rules

// Default rule data. The tables are intentionally plain slices so the
// package stays data-driven: operators extend the allow/block sets via
// configuration without touching tier logic.

// defaultShortFormMarkers block short-form video surfaces regardless of
// any later allow rule. The API markers catch the background requests a
// short-form player issues, not just the page navigation.
var defaultShortFormMarkers = []string{
	"youtube.com/shorts",
	"/shorts",
	"el=shortspage",
	"reel_watch_sequence",
	"reel_item_watch",
	"youtubei/v1/reel",
	"instagram.com/reels",
	"instagram.com/explore",
}

// defaultInfraDomains carry video segments, thumbnails, scripts and other
// traffic that pages on allowed domains cannot render without.
var defaultInfraDomains = []string{
	"googlevideo.com",
	"ggpht.com",
	"ytimg.com",
	"gstatic.com",
	"googleusercontent.com",
	"googleapis.com",
	"google.com",
}

// defaultInfraPatterns allow the player and account plumbing of video
// platforms without allowing their recommendation surfaces.
var defaultInfraPatterns = []string{
	"youtube.com/api/stats",
	"youtube.com/videoplayback",
	"youtube.com/get_video_info",
	"youtube.com/iframe_api",
	"youtube.com/embed",
	"youtube.com/s/player",
	"youtube.com/accounts",
	"youtube.com/channel",
	"youtube.com/playlist",
	"youtube.com/results",
}

var defaultEducationalDomains = []string{
	"github.com", "stackoverflow.com", "wikipedia.org", "docs.python.org",
	"python.org", "realpython.com", "geeksforgeeks.org", "tutorialspoint.com",
	"w3schools.com", "developer.mozilla.org", "kaggle.com",
	"coursera.org", "edx.org", "udemy.com", "freecodecamp.org",
	"leetcode.com", "hackerrank.com", "codewars.com", "exercism.io",
	"rust-lang.org", "golang.org", "go.dev", "nodejs.org", "reactjs.org",
	"vuejs.org", "angular.io", "djangoproject.com",
	"fastapi.tiangolo.com", "pytorch.org", "tensorflow.org", "scikit-learn.org",
	"pandas.pydata.org", "numpy.org", "matplotlib.org",
	"jupyter.org", "anaconda.com",
}

var defaultDistractionDomains = []string{
	"facebook.com", "snapchat.com", "reddit.com", "9gag.com", "imgur.com",
	"buzzfeed.com", "vice.com", "tmz.com", "eonline.com",
	"people.com", "usmagazine.com", "popsugar.com",
	"cosmopolitan.com", "vogue.com", "teenvogue.com",
	"tumblr.com", "deviantart.com", "flickr.com",
	"behance.net", "dribbble.com", "artstation.com",
}

// defaultFeedPatterns block algorithmic browsing surfaces on otherwise
// undecided domains.
var defaultFeedPatterns = []string{
	"x.com/home", "x.com/explore",
	"youtube.com/feed", "youtube.com/trending",
	"/feed", "/home", "/timeline", "/stories", "/reels",
}

// defaultWatchMarkers identify video watch and player endpoints that get
// the tier-6 content-alignment treatment.
var defaultWatchMarkers = []string{
	"/watch",
	"youtubei/v1/player",
}

// defaultEducationalPathKeywords short-circuit the alignment check when
// the URL itself announces educational content.
var defaultEducationalPathKeywords = []string{
	"tutorial", "course", "learn", "education", "how to", "how-to", "guide", "lesson",
}

var defaultSearchEngines = []string{
	"google.com", "bing.com", "duckduckgo.com", "yahoo.com",
}
