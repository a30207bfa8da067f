package matchmaker

// The matchmaker speaks in a warm, connecting register. Its responses
// are assembled from templates rather than generated, so the persona
// lives in the phrasing below and in format.go.
const (
	openingLine = "Oh honey, I hear you. And you know what? You're not alone in this."
	closingLine = "Would you like me to help you connect with them? There's something beautiful about finding your tribe."
)
