// Package shop shapes product lists for the gift shop: category filtering, name search,
// name sorting, category discovery and related products. All functions are pure and
// never modify the slice they are given.
package shop
