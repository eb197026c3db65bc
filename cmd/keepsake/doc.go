// Command keepsake manages captured records and drives 3D world generation
// from the terminal.
package main
