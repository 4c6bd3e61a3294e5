package constants

const (
	CHANNEL_SIZE = 100 // buffered channel size for ws send queues and the broker loop

	POST_MAX_LEN    = 2000 // post body length limit
	COMMENT_MAX_LEN = 1000 // comment body length limit
	BIO_MAX_LEN     = 500  // profile bio length limit

	FEED_PAGE_SIZE         = 10 // default page size for post feeds
	COMMENT_PAGE_SIZE      = 20 // default page size for comment listing
	CONVERSATION_PAGE_SIZE = 50 // default page size for conversation history
	SEARCH_RESULT_LIMIT    = 20 // cap for user search results
	FEED_PREVIEW_COMMENTS  = 3  // newest comments embedded in a feed item

	MIN_START_YEAR = 2020 // earliest admissible enrollment year

	REDIS_TIMEOUT              = 1   // cache operation timeout, seconds
	CACHE_EXPIRY_MINUTES       = 60  // TTL for cached conversation pages
	REFRESH_TOKEN_EXPIRY_HOURS = 168 // 7 days

	DATE_TIME_LAYOUT = "2006-01-02 15:04:05" // timestamp format on the wire
	DATE_LAYOUT      = "2006-01-02"          // dateOfBirth format
)
