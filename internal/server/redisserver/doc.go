// Package redisserver serves the snapkv database over the Redis
// serialization protocol (RESP2).
//
// Every command carries its logical timestamp explicitly; the server never
// consults the wall clock for data semantics.
//
//	PING [message]
//	AUTH password
//	QUIT
//	SET key field value time
//	SETTTL key field value time ttl
//	GET key field time
//	DEL key field time
//	SCAN key time
//	SCANPREFIX key prefix time
//	TTL key field time
//	BACKUP time
//	RESTORE currentTime restoreTime
//	BACKUPS
//	INFO
//
// The codec in resp.go is shared with the command-line client.
package redisserver
