package content

const defaultHeadMeta = "noindex, noarchive, noimageindex, nofollow"

// GenerateRobots derives the robots meta directive for an item. Pages and
// noindex-flagged articles are kept out of indexes entirely; regular
// articles only opt out of archiving and image indexing.
func GenerateRobots(noindex bool, contentType Type) string {
	if contentType != TypeArticle {
		return defaultHeadMeta
	}
	if noindex {
		return defaultHeadMeta
	}
	return "noarchive, noimageindex"
}
