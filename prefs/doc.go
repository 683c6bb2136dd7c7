// This file is part of Gopher65.
//
// Gopher65 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher65 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher65.  If not, see <https://www.gnu.org/licenses/>.

// Package prefs facilitates the storing and loading of preferences to and from
// disk. Preference values are typed (Bool, Int and String) and each type can
// be given hooks that run before and after the value is changed. A pre-hook
// can reject a value by returning an error.
//
// Values are added to a Disk instance with a key, and the Disk writes and
// reads all the values it knows about:
//
//	var v prefs.Bool
//	dsk, _ := prefs.NewDisk("preferences")
//	_ = dsk.Add("hardware.randstate", &v)
//	_ = dsk.Load()
//
// The file is a simple list of "key :: value" lines. Values for keys that
// other Disk instances own are preserved when the file is saved.
//
// Values given on the command line are pushed onto the command line stack with
// PushCommandLineStack() and override the values in the file the next time
// Load() is called.
package prefs
