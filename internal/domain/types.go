package domain

import "time"

type ConversationID string
type TurnID string

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Sentiment is the polarity label inferred for the user side of a
// conversation. The empty value means "no classification available".
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentUnknown  Sentiment = ""
)

type Timestamp = time.Time
