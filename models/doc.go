/*
Package models defines the domain documents (Client, Poll, PollQuestion,
PollOption), the request/response types of the HTTP API, and the realtime
event payloads. Domain types carry bson tags for the Mongo store and json
tags for the API; questions and options are immutable after creation.
*/
package models
