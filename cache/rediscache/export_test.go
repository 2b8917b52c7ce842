package rediscache

var PrefixPattern = prefixPattern
